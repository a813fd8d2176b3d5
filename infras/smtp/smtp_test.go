package smtp_test

import (
	"context"
	"ofcoz/config"
	"ofcoz/infras/otel/mocks"
	"ofcoz/infras/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIME(t *testing.T) {
	date := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	body, err := smtp.BuildMIME("Ofcoz Family <hello@ofcoz.test>", smtp.Message{
		To:      []string{"guest@ofcoz.test", "admin@ofcoz.test"},
		Subject: "预订确认",
		HTML:    "<p>Hello</p>",
		Text:    "Hello",
	}, date)
	require.NoError(t, err)

	raw := string(body)
	assert.Contains(t, raw, "From: Ofcoz Family <hello@ofcoz.test>\r\n")
	assert.Contains(t, raw, "To: guest@ofcoz.test, admin@ofcoz.test\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, raw, "text/plain; charset=UTF-8")
	assert.Contains(t, raw, "<p>Hello</p>")
	assert.True(t, strings.Index(raw, "text/plain") < strings.Index(raw, "text/html"))
}

func TestBuildMIMESkipsEmptyParts(t *testing.T) {
	body, err := smtp.BuildMIME("a@ofcoz.test", smtp.Message{
		To:      []string{"b@ofcoz.test"},
		Subject: "Hi",
		HTML:    "<b>Hi</b>",
	}, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "text/plain")
}

func TestSendWithoutHost(t *testing.T) {
	mailer := smtp.New(&config.Config{}, mocks.NewOtel())

	err := mailer.Send(context.Background(), smtp.Message{To: []string{"b@ofcoz.test"}})
	assert.ErrorIs(t, err, smtp.ErrNotConfigured)
}
