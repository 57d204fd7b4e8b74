// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package mail

import (
	"bytes"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccounts() []Account {
	return []Account{
		{Host: "smtp-a.example.com", Port: "587", Username: "a@example.com", Password: "pw-a"},
		{Host: "smtp-b.example.com", Port: "587", Username: "b@example.com", Password: "pw-b"},
	}
}

/*
TestParseAccount covers the host:port:username:password entry format,
including passwords that themselves contain colons.
*/
func TestParseAccount(t *testing.T) {
	account, err := ParseAccount("mail.example.com:587:robot@example.com:s3cr:et")
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", account.Host)
	assert.Equal(t, "587", account.Port)
	assert.Equal(t, "robot@example.com", account.Username)
	assert.Equal(t, "s3cr:et", account.Password)
	assert.Equal(t, "mail.example.com:587", account.Addr())

	_, err = ParseAccount("missing:fields")
	assert.Error(t, err)

	_, err = ParseAccount(":587:user:pw")
	assert.Error(t, err)
}

/*
TestSMTPSender_Rotation verifies round-robin delivery across relays and
that Reload resets the cursor.
*/
func TestSMTPSender_Rotation(t *testing.T) {
	sender, err := NewSMTPSender(testAccounts(), "no-reply@kertas.app", slog.Default())
	require.NoError(t, err)

	var dialed []string
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		dialed = append(dialed, addr)
		return nil
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, sender.Send(Message{To: "user@example.com", Subject: "hi", HTML: "<p>hi</p>"}))
	}

	assert.Equal(t, []string{
		"smtp-a.example.com:587",
		"smtp-b.example.com:587",
		"smtp-a.example.com:587",
	}, dialed)

	// Reload resets rotation to the front of the new list.
	require.NoError(t, sender.Reload(testAccounts()))
	require.NoError(t, sender.Send(Message{To: "user@example.com", Subject: "hi", HTML: "<p>hi</p>"}))
	assert.Equal(t, "smtp-a.example.com:587", dialed[len(dialed)-1])

	assert.Error(t, sender.Reload(nil))
}

/*
TestSMTPSender_Compose verifies the MIME payload carries the HTML body and
a deterministic Date header from the injected clock.
*/
func TestSMTPSender_Compose(t *testing.T) {
	sender, err := NewSMTPSender(testAccounts(), "no-reply@kertas.app", slog.Default())
	require.NoError(t, err)
	sender.clock = func() time.Time {
		return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	}

	var payload []byte
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		payload = msg
		return nil
	}

	require.NoError(t, sender.Send(Message{
		To:      "user@example.com",
		Subject: "Reset your password",
		HTML:    "<a href=\"https://kertas.app/reset\">Reset</a>",
	}))

	body := string(payload)
	assert.Contains(t, body, "Subject: Reset your password\r\n")
	assert.Contains(t, body, "Date: Sun, 01 Mar 2026 09:30:00 +0000\r\n")
	assert.Contains(t, body, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(body, "<a href=\"https://kertas.app/reset\">Reset</a>"))
}

/*
TestSMTPSender_DeliveryError verifies wire failures surface to the caller.
*/
func TestSMTPSender_DeliveryError(t *testing.T) {
	sender, err := NewSMTPSender(testAccounts(), "no-reply@kertas.app", slog.Default())
	require.NoError(t, err)

	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err = sender.Send(Message{To: "user@example.com", Subject: "hi", HTML: "x"})
	assert.ErrorContains(t, err, "delivery via smtp-a.example.com:587 failed")
}

/*
TestLogSender covers the development fallback: a process without SMTP relays
still satisfies [Sender], writing the message to the log instead.
*/
func TestLogSender(t *testing.T) {
	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, nil))

	var sender Sender = NewLogSender(logger)

	require.NoError(t, sender.Send(Message{
		To:      "user@example.com",
		Subject: "Reset your password",
		HTML:    "<a href=\"https://kertas.app/account/reset-password?token=abc\">Reset</a>",
	}))

	logged := logBuffer.String()
	assert.Contains(t, logged, "mail_logged_not_delivered")
	assert.Contains(t, logged, "user@example.com")
	assert.Contains(t, logged, "reset-password?token=abc")
}

/*
TestNewSMTPSender_RequiresAccounts pins the rule the composition root relies
on: the SMTP sender refuses to exist without relays, so the caller must pick
the log fallback explicitly.
*/
func TestNewSMTPSender_RequiresAccounts(t *testing.T) {
	_, err := NewSMTPSender(nil, "no-reply@kertas.app", slog.Default())
	assert.Error(t, err)
}
