package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// Stream implements a QuoteStream over the provider's trade WebSocket. Ticks
// are only consumed to invalidate stale cached series, so dropping frames
// under backpressure is acceptable.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewStream creates the realtime quote stream for the given symbols.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *applogger.Logger) domrepo.QuoteStream {
	if reconnectDelay <= 0 {
		reconnectDelay = 2 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

func (s *Stream) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("quote stream connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	if s.log != nil {
		s.log.Info("quote stream connected")
	}
	return nil
}

func (s *Stream) Subscribe(ctx context.Context) error {
	s.mu.Lock()
	conn, ok := s.conn, s.connected
	s.mu.Unlock()
	if conn == nil || !ok {
		return fmt.Errorf("quote stream not connected")
	}
	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	return nil
}

type wireTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	T int64   `json:"t"` // ms epoch
}

type wireFrame struct {
	Type string     `json:"type"`
	Data []wireTick `json:"data"`
}

func (s *Stream) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	quotes := make(chan *models.Quote, 1024)
	errs := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				conn := s.conn
				s.mu.Unlock()
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	go func() {
		defer close(quotes)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn == nil {
				errs <- fmt.Errorf("quote stream: connection lost")
				return
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("quote stream read: %w", err)
				return
			}
			var frame wireFrame
			if err := json.Unmarshal(b, &frame); err != nil {
				continue // ignore non-JSON frames
			}
			if frame.Type != "trade" {
				continue
			}
			for _, d := range frame.Data {
				q := &models.Quote{Symbol: d.S, Price: d.P, Time: time.Unix(d.T/1000, 0).UTC()}
				select {
				case quotes <- q:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return quotes, errs
}

func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
