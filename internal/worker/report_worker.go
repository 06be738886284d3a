// Package worker runs recurring background jobs next to the API server.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/fincontrol/backend/internal/mail"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// checkInterval is how often the worker checks whether a report is due.
// The report itself is sent once per month.
const checkInterval = time.Hour

// ReportWorker mails the budget summary of a month once the month is
// over.
type ReportWorker struct {
	db *gorm.DB

	// Last month a report was sent for, so the check loop is idempotent
	lastSent types.Month

	// Overridable for tests.
	sendReport func(cfg mail.Config, month types.Month) error
}

func NewReportWorker(db *gorm.DB) *ReportWorker {
	w := &ReportWorker{db: db}
	w.sendReport = w.send
	return w
}

// Run blocks until the context is canceled, sending the monthly report
// when one is due. It is meant to be started in its own goroutine.
func (w *ReportWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	log.Info().Msg("monthly report worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("monthly report worker stopped")
			return
		case <-ticker.C:
			w.check(time.Now().In(time.UTC))
		}
	}
}

// check sends the report for the previous month if it has not been sent
// yet. Failures are logged and retried on the next tick.
func (w *ReportWorker) check(now time.Time) {
	previous := types.MonthOf(now).AddDate(0, -1)
	if previous.Equal(w.lastSent) {
		return
	}

	cfg, ok := mail.FromEnv()
	if !ok {
		return
	}

	err := w.sendReport(cfg, previous)
	if err != nil {
		log.Error().Err(err).Str("month", previous.String()).Msg("could not send the monthly report")
		return
	}

	w.lastSent = previous
}

func (w *ReportWorker) send(cfg mail.Config, month types.Month) error {
	budget, err := models.ForMonth(w.db, month)
	if err != nil {
		return err
	}

	summary, err := budget.Summary(w.db)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Resumo do mês %s:\n\n"+
			"Planejado: %s\n"+
			"Realizado: %s\n"+
			"Saldo: %s\n"+
			"Percentual utilizado: %s%%\n",
		month,
		mail.FormatBRL(summary.Planned),
		mail.FormatBRL(summary.Realized),
		mail.FormatBRL(summary.Balance),
		summary.Percentage,
	)

	err = mail.Send(cfg, fmt.Sprintf("Resumo Mensal %s", month), body)
	if err != nil {
		return err
	}

	log.Info().Str("month", month.String()).Msg("monthly report sent")
	return nil
}
