package session

import (
	"context"
	"log"

	"github.com/Krimson/patient-monitor/internal/models"
)

// LogReporter пишет факт выдачи отчета в лог
type LogReporter struct{}

func (lr *LogReporter) Deliver(ctx context.Context, report *models.Report) error {
	log.Printf("[REPORT] session=%s contact=%s diagnosis=%q recommendations=%d",
		report.SessionID,
		report.Contact,
		report.Result.PotentialDiagnosis,
		len(report.Result.Recommendations))
	return nil
}

// CompositeReporter доставляет отчет нескольким потребителям. Отказ
// одного потребителя не мешает остальным.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter создает составной Reporter
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{
		reporters: reporters,
	}
}

// Deliver отправляет отчет всем подключенным потребителям
func (cr *CompositeReporter) Deliver(ctx context.Context, report *models.Report) error {
	for _, r := range cr.reporters {
		if err := r.Deliver(ctx, report); err != nil {
			log.Printf("[ERROR] Reporter failed to deliver report: %v", err)
			// Не возвращаем ошибку, продолжаем доставку остальным
		}
	}
	return nil
}
