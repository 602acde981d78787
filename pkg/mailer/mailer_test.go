package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type sentMessage struct {
	from string
	to   []string
	raw  string
}

// fakeTransport records messages and fails for configured recipients.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]error
	pingErr error
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(ctx context.Context, from string, to []string, raw []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, addr := range to {
		if err, ok := f.failFor[addr]; ok {
			return "", err
		}
	}
	f.sent = append(f.sent, sentMessage{from: from, to: append([]string(nil), to...), raw: string(raw)})
	return fmt.Sprintf("fake-%d", len(f.sent)), nil
}

func (f *fakeTransport) Ping(ctx context.Context) error { return f.pingErr }

func testConfig() Config {
	return Config{Transport: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587, From: "notes@example.com", FromName: "Meeting Notes"}
}

func TestValidateAddresses(t *testing.T) {
	v := ValidateAddresses([]string{"a@b.co", "bad-email", " c@d.org ", "x@y", "@no.pe"})

	assert.Equal(t, 5, v.Total)
	assert.Equal(t, 2, v.Valid)
	assert.Equal(t, 3, v.Invalid)
	assert.Equal(t, []string{"a@b.co", "c@d.org"}, v.ValidEmails)
	assert.Equal(t, []string{"bad-email", "x@y", "@no.pe"}, v.InvalidEmails)
	require.Len(t, v.Results, 5)
	assert.Equal(t, AddressCheck{Email: "bad-email", Valid: false}, v.Results[1])
}

func TestValidateAddressesEmpty(t *testing.T) {
	v := ValidateAddresses(nil)
	assert.Equal(t, 0, v.Total)
	assert.NotNil(t, v.ValidEmails)
	assert.NotNil(t, v.InvalidEmails)
}

func TestSendOne(t *testing.T) {
	ft := &fakeTransport{}
	c := New(testConfig(), ft, nil)

	res, err := c.SendOne(context.Background(), []string{"a@b.co", "c@d.org"}, "Line one\nLine two <script>", "")
	require.NoError(t, err)

	assert.Equal(t, "fake-1", res.MessageID)
	assert.Equal(t, DefaultSubject, res.Subject)
	assert.Equal(t, []string{"a@b.co", "c@d.org"}, res.Recipients)

	require.Len(t, ft.sent, 1)
	msg := ft.sent[0]
	assert.Equal(t, "notes@example.com", msg.from)
	assert.Equal(t, []string{"a@b.co", "c@d.org"}, msg.to)
	assert.Contains(t, msg.raw, "Subject: Meeting Summary")
	assert.Contains(t, msg.raw, "multipart/alternative")
	assert.Contains(t, msg.raw, "text/html")
	assert.Contains(t, msg.raw, "Message-Id:")
}

func TestSendOneRejectsInvalidBeforeTransport(t *testing.T) {
	ft := &fakeTransport{}
	c := New(testConfig(), ft, nil)

	_, err := c.SendOne(context.Background(), []string{"a@b.co", "bad-email"}, "body", "s")
	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.Contains(t, err.Error(), "bad-email")

	_, err = c.SendOne(context.Background(), nil, "body", "s")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	assert.Empty(t, ft.sent)
}

func TestSendOneNotConfigured(t *testing.T) {
	c := New(testConfig(), nil, nil)
	assert.False(t, c.Configured())

	_, err := c.SendOne(context.Background(), []string{"a@b.co"}, "body", "s")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.SendBulk(context.Background(), []string{"a@b.co"}, "body", "s")
	assert.ErrorIs(t, err, ErrNotConfigured)

	res := c.TestConnection(context.Background())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestSendBulkPartialFailure(t *testing.T) {
	ft := &fakeTransport{failFor: map[string]error{"b@x.io": errors.New("550 mailbox unavailable")}}
	c := New(testConfig(), ft, nil)

	results, err := c.SendBulk(context.Background(), []string{"a@x.io", "b@x.io", "c@x.io"}, "body", "Weekly sync")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a@x.io", results[0].Email)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "550")
	assert.True(t, results[2].Success)

	seqs := map[int64]bool{}
	for _, r := range results {
		assert.Positive(t, r.Seq)
		seqs[r.Seq] = true
	}
	assert.Len(t, seqs, 3)
	assert.Len(t, ft.sent, 2)
}

func TestSendBulkInvalidAddressIsPerRecipient(t *testing.T) {
	ft := &fakeTransport{}
	c := New(testConfig(), ft, nil)

	results, err := c.SendBulk(context.Background(), []string{"ok@x.io", "nope"}, "body", "")
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "nope")
}

func TestSendBulkRateLimited(t *testing.T) {
	ft := &fakeTransport{}
	cfg := testConfig()
	cfg.BulkRatePerSec = 1000
	cfg.BulkConcurrency = 2
	c := New(cfg, ft, nil)

	rcpts := make([]string, 10)
	for i := range rcpts {
		rcpts[i] = fmt.Sprintf("r%d@x.io", i)
	}
	results, err := c.SendBulk(context.Background(), rcpts, "body", "")
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Success, r.Email)
	}
}

func TestSendBulkCancelled(t *testing.T) {
	ft := &fakeTransport{}
	c := New(testConfig(), ft, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := c.SendBulk(ctx, []string{"a@x.io", "b@x.io"}, "body", "")
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.Success)
	}
	assert.Empty(t, ft.sent)
}

func TestTestConnectionAndStats(t *testing.T) {
	ft := &fakeTransport{}
	c := New(testConfig(), ft, nil)
	assert.True(t, c.TestConnection(context.Background()).Success)

	ft.pingErr = errors.New("auth failed")
	res := c.TestConnection(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "auth failed", res.Error)

	st := c.Stats()
	assert.True(t, st.Configured)
	assert.Equal(t, "smtp", st.Provider)
	assert.Equal(t, "smtp.example.com", st.Host)
	assert.Equal(t, 587, st.Port)
	assert.Equal(t, "notes@example.com", st.From)
}

func TestNewFromConfigWithoutCredentials(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	c := NewFromConfig(testConfig(), nil)
	assert.False(t, c.Configured())
	assert.False(t, c.Stats().Configured)
	assert.Contains(t, logs.String(), `"component":"mailer"`)
	assert.Contains(t, logs.String(), "email credentials missing")

	gmailCfg := testConfig()
	gmailCfg.Transport = "gmail"
	assert.False(t, NewFromConfig(gmailCfg, nil).Configured())
}

func TestRenderHTML(t *testing.T) {
	out, err := renderHTML("Sync <notes>", "**Decisions**\nShip it\n<b>raw</b>", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<strong>Decisions</strong><br")
	assert.Contains(t, html, "Sync &lt;notes&gt;")
	assert.Contains(t, html, "March 1, 2024")
	assert.NotContains(t, html, "<b>raw</b>")
}

func TestClassifyGmailError(t *testing.T) {
	netErr := &url.Error{Op: "Post", URL: "https://gmail.googleapis.com", Err: errors.New("connection refused")}
	assert.ErrorIs(t, classifyGmailError(netErr), ErrUnavailable)

	tokenErr := &oauth2.RetrieveError{ErrorCode: "invalid_grant"}
	assert.ErrorIs(t, classifyGmailError(tokenErr), ErrUnavailable)

	other := errors.New("googleapi: Error 400: Invalid To header")
	assert.False(t, errors.Is(classifyGmailError(other), ErrUnavailable))
	assert.True(t, strings.Contains(classifyGmailError(other).Error(), "Invalid To header"))
}
