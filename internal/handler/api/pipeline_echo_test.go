package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

func errorEnvelope(t *testing.T, err error) xhttp.APIResponse {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewPipelineEchoHandler(nil, nil)
	if herr := h.pipelineError(c, err); herr != nil {
		t.Fatalf("write response: %v", herr)
	}

	var resp xhttp.APIResponse
	if derr := json.Unmarshal(rec.Body.Bytes(), &resp); derr != nil {
		t.Fatalf("decode envelope: %v", derr)
	}
	return resp
}

func TestPipelineErrorMapsSentinelsToBadRequest(t *testing.T) {
	for _, sentinel := range []error{
		models.ErrInsufficientHistory,
		models.ErrInvalidSeries,
		models.ErrUnknownModel,
	} {
		resp := errorEnvelope(t, fmt.Errorf("evaluate: %w", sentinel))
		if resp.Status != http.StatusBadRequest {
			t.Fatalf("%v: envelope status %d, want 400", sentinel, resp.Status)
		}
	}
}

func TestPipelineErrorHidesInternalCause(t *testing.T) {
	cause := errors.New("clickhouse dial tcp refused")
	resp := errorEnvelope(t, cause)
	if resp.Status != http.StatusInternalServerError {
		t.Fatalf("envelope status %d, want 500", resp.Status)
	}
	b, _ := json.Marshal(resp)
	if strings.Contains(string(b), cause.Error()) {
		t.Fatalf("internal cause leaked into response: %s", b)
	}
}
