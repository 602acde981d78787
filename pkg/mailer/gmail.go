package mailer

import (
	"context"
	"encoding/base64"
	"net"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailTransport sends through the Gmail API as the account owning the
// refresh token.
type GmailTransport struct {
	srv *gmail.Service
}

// NewGmailTransport builds a Gmail API client that refreshes access tokens
// from refreshToken. Extra options are appended to the client options.
func NewGmailTransport(ctx context.Context, clientID, clientSecret, refreshToken string, opts ...option.ClientOption) (*GmailTransport, error) {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	tokenSource := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken, TokenType: "Bearer"})

	clientOpts := append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)
	srv, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create Gmail service")
	}
	return &GmailTransport{srv: srv}, nil
}

func (t *GmailTransport) Name() string { return "gmail" }

func (t *GmailTransport) Send(ctx context.Context, from string, to []string, raw []byte) (string, error) {
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}
	sent, err := t.srv.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", classifyGmailError(errors.Wrap(err, "unable to send message"))
	}
	return sent.Id, nil
}

func (t *GmailTransport) Ping(ctx context.Context) error {
	if _, err := t.srv.Users.GetProfile("me").Context(ctx).Do(); err != nil {
		return classifyGmailError(errors.Wrap(err, "gmail profile"))
	}
	return nil
}

// classifyGmailError marks token refresh and network failures as unavailable.
func classifyGmailError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &retrieveErr) || errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return unavailable(err)
	}
	return err
}
