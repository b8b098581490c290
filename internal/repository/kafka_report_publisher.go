package repository

import (
	"context"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// KafkaReportPublisher emits finished evaluation and forecast reports to
// Kafka, keyed by symbol so a consumer sees one symbol's reports in order.
type KafkaReportPublisher struct {
	producer      *pkgkafka.Producer
	evalTopic     string
	forecastTopic string
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, evalTopic, forecastTopic string) domrepo.ReportPublisher {
	return &KafkaReportPublisher{
		producer:      producer,
		evalTopic:     evalTopic,
		forecastTopic: forecastTopic,
	}
}

func (p *KafkaReportPublisher) PublishEvaluation(ctx context.Context, r *models.EvaluationReport) error {
	return p.producer.Publish(ctx, p.evalTopic, []byte(r.Symbol), r)
}

func (p *KafkaReportPublisher) PublishForecast(ctx context.Context, r *models.ForecastReport) error {
	return p.producer.Publish(ctx, p.forecastTopic, []byte(r.Symbol), r)
}

func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}
