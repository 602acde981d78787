package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
)

// SMTPSecurity selects how the SMTP connection is protected.
type SMTPSecurity string

const (
	// SecurityStartTLS upgrades a plain connection and fails when the server
	// does not offer STARTTLS.
	SecurityStartTLS SMTPSecurity = "starttls"
	// SecurityTLS uses implicit TLS (SMTPS).
	SecurityTLS SMTPSecurity = "tls"
	// SecurityNone sends in the clear. Only for local relays.
	SecurityNone SMTPSecurity = "none"
)

// ParseSMTPSecurity maps a config value to a mode. Empty picks implicit TLS
// on port 465 and STARTTLS elsewhere.
func ParseSMTPSecurity(value string, port int) SMTPSecurity {
	switch SMTPSecurity(strings.ToLower(strings.TrimSpace(value))) {
	case SecurityTLS, "ssl", "smtps":
		return SecurityTLS
	case SecurityNone, "plain":
		return SecurityNone
	case SecurityStartTLS:
		return SecurityStartTLS
	}
	if port == 465 {
		return SecurityTLS
	}
	return SecurityStartTLS
}

// SMTPTransport submits mail to an SMTP server and authenticates with PLAIN.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
	security SMTPSecurity

	// tlsConfig overrides the TLS settings; nil verifies against host.
	tlsConfig *tls.Config
}

// NewSMTPTransport creates an SMTP transport using the default security mode
// for port.
func NewSMTPTransport(host string, port int, username, password string, timeout time.Duration) *SMTPTransport {
	if port == 0 {
		port = 587
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPTransport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  timeout,
		security: ParseSMTPSecurity("", port),
	}
}

// WithSecurity overrides the security mode.
func (t *SMTPTransport) WithSecurity(security SMTPSecurity) *SMTPTransport {
	t.security = security
	return t
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, from string, to []string, raw []byte) (string, error) {
	c, err := t.connect(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	if err := c.SendMail(from, to, bytes.NewReader(raw)); err != nil {
		return "", errors.Wrap(err, "smtp send")
	}
	if err := c.Quit(); err != nil {
		return "", errors.Wrap(err, "smtp quit")
	}
	return "", nil
}

func (t *SMTPTransport) Ping(ctx context.Context) error {
	c, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Noop(); err != nil {
		return unavailable(errors.Wrap(err, "smtp noop"))
	}
	return c.Quit()
}

// connect dials, negotiates TLS and authenticates. Failures at any of these
// steps are reported as ErrUnavailable.
func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	dialer := &net.Dialer{Timeout: t.timeout}
	tlsConfig := t.tlsConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: t.host}
	}

	var conn net.Conn
	var err error
	if t.security == SecurityTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, unavailable(errors.Wrapf(err, "dial %s", addr))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(t.timeout))
	}

	var c *smtp.Client
	switch t.security {
	case SecurityStartTLS:
		c, err = smtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			_ = conn.Close()
			return nil, unavailable(errors.Wrap(err, "smtp starttls"))
		}
	default:
		c = smtp.NewClient(conn)
		if err := c.Hello("localhost"); err != nil {
			c.Close()
			return nil, unavailable(errors.Wrap(err, "smtp hello"))
		}
	}

	if t.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(sasl.NewPlainClient("", t.username, t.password)); err != nil {
				c.Close()
				return nil, unavailable(errors.Wrap(err, "smtp auth"))
			}
		}
	}
	return c, nil
}

// unavailableError marks err as a connectivity or credential failure.
type unavailableError struct {
	err error
}

func unavailable(err error) error {
	return &unavailableError{err: err}
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnavailable, e.err)
}

func (e *unavailableError) Unwrap() error { return e.err }

func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }
