// Package mail sends notification mails for noteworthy ledger events,
// like a single expense crossing the configured alert limit.
package mail

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Overridable for tests.
var (
	sendMail   = smtp.SendMail
	retryDelay = 2 * time.Second
)

const retryAttempts = 3

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

// FromEnv reads the SMTP configuration from the environment. The second
// return value is false when mail sending is not configured.
func FromEnv() (Config, bool) {
	host := os.Getenv("SMTP_HOST")
	to := os.Getenv("MAIL_TO")
	if host == "" || to == "" {
		return Config{}, false
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	return Config{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
		To:       strings.Split(to, ","),
	}, true
}

// Send delivers a plain text mail, retrying failed deliveries.
func Send(cfg Config, subject, body string) error {
	msg := []byte("From: " + cfg.From + "\r\n" +
		"To: " + strings.Join(cfg.To, ", ") + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body)

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	addr := cfg.Host + ":" + cfg.Port

	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		err = sendMail(addr, auth, cfg.From, cfg.To, msg)
		if err == nil {
			return nil
		}

		log.Warn().Err(err).Int("attempt", attempt).Str("subject", subject).Msg("mail delivery failed")

		if attempt < retryAttempts {
			time.Sleep(retryDelay)
		}
	}

	return fmt.Errorf("mail delivery failed after %d attempts: %w", retryAttempts, err)
}

// NotifyHighExpense sends an alert when the expense amount crosses the
// limit set in EXPENSE_ALERT_LIMIT.
//
// Like the mirror sync, this is best-effort: failures are logged and
// never block the expense write that triggered the alert.
func NotifyHighExpense(expense models.Expense) {
	limit := os.Getenv("EXPENSE_ALERT_LIMIT")
	if limit == "" {
		return
	}

	threshold, err := decimal.NewFromString(limit)
	if err != nil {
		log.Warn().Str("limit", limit).Msg("the expense alert limit is not a valid number")
		return
	}

	if expense.Type != models.TypeExpense || expense.Amount.LessThanOrEqual(threshold) {
		return
	}

	cfg, ok := FromEnv()
	if !ok {
		return
	}

	body := fmt.Sprintf(
		"Um gasto acima do limite de %s foi registrado:\n\n"+
			"Descrição: %s\n"+
			"Valor: %s\n"+
			"Categoria: %s\n"+
			"Data: %s\n",
		FormatBRL(threshold),
		expense.Description,
		FormatBRL(expense.Amount),
		expense.Category,
		expense.Date.Format("02/01/2006 15:04"),
	)

	if err := Send(cfg, "Alerta de Gasto Elevado", body); err != nil {
		log.Error().Err(err).Uint("expenseId", expense.ID).Msg("could not send the expense alert")
	}
}

// FormatBRL formats an amount as Brazilian Real, e.g. "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	f, _ := amount.Float64()
	return p.Sprintf("R$ %v", number.Decimal(f, number.Scale(2)))
}
