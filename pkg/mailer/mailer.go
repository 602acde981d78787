// Package mailer delivers meeting summaries by email over SMTP or the Gmail API.
package mailer

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/metrics"

	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultSubject is used when the caller gives none.
const DefaultSubject = "Meeting Summary"

var (
	// ErrNotConfigured means no transport or credentials are set.
	ErrNotConfigured = errors.New("email service is not configured")
	// ErrUnavailable means the transport could not be reached or refused to authenticate.
	ErrUnavailable = errors.New("email service unavailable")
	// ErrInvalidRecipient means a recipient address is malformed or the list is empty.
	ErrInvalidRecipient = errors.New("invalid email addresses")
)

// Transport hands a composed message to a mail system.
type Transport interface {
	Name() string
	// Send delivers raw to every address in to and returns the provider's
	// message id, or "" when it has none.
	Send(ctx context.Context, from string, to []string, raw []byte) (string, error)
	Ping(ctx context.Context) error
}

// Config configures the mail client. Transport settings are only read by NewFromConfig.
type Config struct {
	Transport string // "smtp" or "gmail"
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	From      string
	FromName  string
	Timeout   time.Duration

	// SMTPSecurity is "starttls", "tls" or "none"; empty picks by port.
	SMTPSecurity string

	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string

	// BulkConcurrency bounds in-flight sends during a bulk send.
	BulkConcurrency int
	// BulkRatePerSec limits bulk send starts per second; 0 disables limiting.
	BulkRatePerSec float64
}

// InvalidRecipientError lists rejected addresses.
type InvalidRecipientError struct {
	Addresses []string
}

func (e *InvalidRecipientError) Error() string {
	if len(e.Addresses) == 0 {
		return "at least one recipient is required"
	}
	return "Invalid email addresses: " + strings.Join(e.Addresses, ", ")
}

func (e *InvalidRecipientError) Is(target error) bool {
	return target == ErrInvalidRecipient
}

// SendResult describes one delivered message.
type SendResult struct {
	MessageID  string    `json:"messageId"`
	Recipients []string  `json:"recipients"`
	Subject    string    `json:"subject"`
	SentAt     time.Time `json:"sentAt"`
}

// BulkResult is the outcome for one recipient of a bulk send.
type BulkResult struct {
	Email     string    `json:"email"`
	Success   bool      `json:"success"`
	MessageID string    `json:"messageId,omitempty"`
	Error     string    `json:"error,omitempty"`
	SentAt    time.Time `json:"-"`
	// Seq orders results by completion, starting at 1.
	Seq int64 `json:"-"`
}

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Status is a diagnostic snapshot of the client configuration.
type Status struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider"`
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	From       string `json:"from,omitempty"`
}

// Client sends summary emails through a Transport.
type Client struct {
	cfg         Config
	transport   Transport
	limiter     *rate.Limiter
	concurrency int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// New creates a client over transport. A nil transport yields a client whose
// sends fail with ErrNotConfigured.
func New(cfg Config, transport Transport, m *metrics.Metrics) *Client {
	c := &Client{
		cfg:         cfg,
		transport:   transport,
		concurrency: cfg.BulkConcurrency,
		metrics:     m,
		logger:      logging.Component("mailer"),
		now:         time.Now,
	}
	if c.concurrency <= 0 {
		c.concurrency = 5
	}
	if cfg.BulkRatePerSec > 0 {
		burst := int(cfg.BulkRatePerSec)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.BulkRatePerSec), burst)
	}
	return c
}

// NewFromConfig picks the transport named by cfg. Missing credentials leave
// the client unconfigured.
func NewFromConfig(cfg Config, m *metrics.Metrics) *Client {
	logger := logging.Component("mailer")
	var transport Transport
	switch strings.ToLower(cfg.Transport) {
	case "gmail":
		if cfg.GmailClientID != "" && cfg.GmailClientSecret != "" && cfg.GmailRefreshToken != "" {
			t, err := NewGmailTransport(context.Background(), cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken)
			if err != nil {
				logger.Error().Err(err).Msg("gmail transport unavailable")
			} else {
				transport = t
			}
		}
	default:
		if cfg.Username != "" && cfg.Password != "" && cfg.SMTPHost != "" {
			transport = NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password, cfg.Timeout).
				WithSecurity(ParseSMTPSecurity(cfg.SMTPSecurity, cfg.SMTPPort))
		}
	}
	if transport == nil {
		logger.Warn().Str("transport", cfg.Transport).Msg("email credentials missing, sending disabled")
	}
	return New(cfg, transport, m)
}

// Configured reports whether a transport is available.
func (c *Client) Configured() bool {
	return c.transport != nil
}

// SendOne sends one message to every recipient. Any malformed address rejects
// the whole request before the transport is touched.
func (c *Client) SendOne(ctx context.Context, recipients []string, body, subject string) (*SendResult, error) {
	if c.transport == nil {
		return nil, ErrNotConfigured
	}
	to, err := normalizeRecipients(recipients)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}

	now := c.now()
	raw, messageID, err := composeMessage(c.fromAddress(), to, subject, body, now)
	if err != nil {
		return nil, err
	}

	providerID, err := c.transport.Send(ctx, c.fromAddress().Address, to, raw)
	if err != nil {
		c.metrics.ObserveEmail(c.transport.Name(), "failed")
		c.logger.Error().Err(err).Strs("recipients", to).Msg("send failed")
		return nil, err
	}
	if providerID != "" {
		messageID = providerID
	}

	c.metrics.ObserveEmail(c.transport.Name(), "sent")
	c.logger.Info().Str("message_id", messageID).Int("recipients", len(to)).Msg("email sent")

	return &SendResult{
		MessageID:  messageID,
		Recipients: to,
		Subject:    subject,
		SentAt:     now,
	}, nil
}

// SendBulk sends an individual message to each recipient concurrently. Per
// recipient failures are reported in the results, which keep input order.
func (c *Client) SendBulk(ctx context.Context, recipients []string, body, subject string) ([]BulkResult, error) {
	if c.transport == nil {
		return nil, ErrNotConfigured
	}

	results := make([]BulkResult, len(recipients))
	var seq atomic.Int64

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, rcpt := range recipients {
		i, rcpt := i, strings.TrimSpace(rcpt)
		g.Go(func() error {
			res := BulkResult{Email: rcpt}
			err := c.waitTurn(ctx)
			if err == nil {
				var sent *SendResult
				sent, err = c.SendOne(ctx, []string{rcpt}, body, subject)
				if err == nil {
					res.Success = true
					res.MessageID = sent.MessageID
					res.SentAt = sent.SentAt
				}
			}
			if err != nil {
				res.Error = err.Error()
			}
			res.Seq = seq.Add(1)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// TestConnection checks the transport is reachable and accepts our credentials.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	if c.transport == nil {
		return ConnectionResult{Success: false, Error: ErrNotConfigured.Error()}
	}
	if err := c.transport.Ping(ctx); err != nil {
		return ConnectionResult{Success: false, Error: err.Error()}
	}
	return ConnectionResult{Success: true, Message: "Email service is configured correctly"}
}

// Stats returns the client's configuration for diagnostics.
func (c *Client) Stats() Status {
	st := Status{
		Configured: c.transport != nil,
		Provider:   strings.ToLower(c.cfg.Transport),
		From:       c.cfg.From,
	}
	if st.Provider == "" {
		st.Provider = "smtp"
	}
	if st.Provider == "smtp" {
		st.Host = c.cfg.SMTPHost
		st.Port = c.cfg.SMTPPort
	}
	return st
}

func (c *Client) fromAddress() *mail.Address {
	from := c.cfg.From
	if from == "" {
		from = c.cfg.Username
	}
	return &mail.Address{Name: c.cfg.FromName, Address: from}
}

func (c *Client) waitTurn(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}
	return c.limiter.Wait(ctx)
}

func normalizeRecipients(recipients []string) ([]string, error) {
	to := make([]string, 0, len(recipients))
	var invalid []string
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if !IsValidEmail(r) {
			invalid = append(invalid, r)
			continue
		}
		to = append(to, r)
	}
	if len(invalid) > 0 || len(to) == 0 {
		return nil, &InvalidRecipientError{Addresses: invalid}
	}
	return to, nil
}
