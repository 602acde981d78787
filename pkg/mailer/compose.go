package mailer

import (
	"bytes"
	"html/template"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
    <h1 style="color: #2c3e50; margin: 0;">{{.Subject}}</h1>
    <p style="color: #7f8c8d; margin: 5px 0 0 0;">Generated on {{.Date}}</p>
  </div>
  <div style="background-color: #fff; padding: 20px; border: 1px solid #e9ecef; border-radius: 8px;">
    {{.Body}}
  </div>
  <div style="margin-top: 20px; padding: 15px; background-color: #e8f4fd; border-radius: 8px; font-size: 14px; color: #6c757d;">
    <p style="margin: 0;">This summary was generated using AI Meeting Notes Summarizer.</p>
  </div>
</body>
</html>
`))

// renderHTML renders the summary text as the HTML body. Raw HTML in the
// summary is dropped and line breaks are kept.
func renderHTML(subject, text string, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(text), &body); err != nil {
		return nil, errors.Wrap(err, "render summary")
	}

	var out bytes.Buffer
	err := summaryTemplate.Execute(&out, struct {
		Subject string
		Date    string
		Body    template.HTML
	}{
		Subject: subject,
		Date:    now.Format("January 2, 2006"),
		Body:    template.HTML(body.String()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "execute template")
	}
	return out.Bytes(), nil
}

// composeMessage builds a multipart/alternative message with a plain text and
// an HTML part. It returns the raw message and its Message-ID.
func composeMessage(from *mail.Address, to []string, subject, text string, now time.Time) ([]byte, string, error) {
	htmlBody, err := renderHTML(subject, text, now)
	if err != nil {
		return nil, "", err
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{from})
	rcpts := make([]*mail.Address, 0, len(to))
	for _, addr := range to {
		rcpts = append(rcpts, &mail.Address{Address: addr})
	}
	h.SetAddressList("To", rcpts)
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, "", errors.Wrap(err, "generate message id")
	}
	messageID, err := h.MessageID()
	if err != nil {
		return nil, "", errors.Wrap(err, "read message id")
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, "", errors.Wrap(err, "create mail writer")
	}
	tw, err := mw.CreateInline()
	if err != nil {
		return nil, "", errors.Wrap(err, "create inline writer")
	}

	parts := []struct {
		contentType string
		body        []byte
	}{
		{"text/plain", []byte(text)},
		{"text/html", htmlBody},
	}
	for _, p := range parts {
		var ph mail.InlineHeader
		ph.SetContentType(p.contentType, map[string]string{"charset": "utf-8"})
		w, err := tw.CreatePart(ph)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create %s part", p.contentType)
		}
		if _, err := io.Copy(w, bytes.NewReader(p.body)); err != nil {
			return nil, "", errors.Wrapf(err, "write %s part", p.contentType)
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), messageID, nil
}
