// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package mail delivers transactional email over SMTP.

It owns the external email contract of the platform: a message either reaches
the SMTP server or the caller gets an error. Template rendering and retry
policy belong to the callers.

Architecture:

  - Sender: The narrow interface consumed by domain services.
  - SMTPSender: Round-robin delivery across the configured SMTP accounts.
  - No ambient state: the account list and rotation cursor live on one
    explicitly constructed object per process, refreshed via Reload.
*/
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"sync"
	"time"
)

// Message is the delivery contract: recipient, subject, and an HTML body.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender accepts a message and either delivers it or returns an error.
type Sender interface {
	Send(message Message) error
}

// Account holds the credentials for one SMTP relay.
type Account struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Addr returns the dial address for the relay.
func (a Account) Addr() string {
	return a.Host + ":" + a.Port
}

// ParseAccount parses a "host:port:username:password" config entry.
func ParseAccount(entry string) (Account, error) {
	parts := strings.SplitN(entry, ":", 4)
	if len(parts) != 4 {
		return Account{}, fmt.Errorf("mail: malformed SMTP account entry (want host:port:username:password)")
	}

	account := Account{
		Host:     parts[0],
		Port:     parts[1],
		Username: parts[2],
		Password: parts[3],
	}

	if account.Host == "" || account.Port == "" || account.Username == "" {
		return Account{}, fmt.Errorf("mail: SMTP account entry missing host, port, or username")
	}

	return account, nil
}

// ParseAccounts parses the full SMTP_ACCOUNTS config list.
func ParseAccounts(entries []string) ([]Account, error) {
	accounts := make([]Account, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		account, err := ParseAccount(entry)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// LogSender records messages in the log instead of delivering them. It keeps
// development environments bootable without SMTP credentials; reset links are
// read straight from the log output.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and reports success.
func (sender *LogSender) Send(message Message) error {
	sender.logger.Info("mail_logged_not_delivered",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("html", message.HTML),
	)
	return nil
}

// sendFunc matches [net/smtp.SendMail]; swapped out in tests.
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers messages over plain SMTP, rotating round-robin across
// its account list so no single relay absorbs the whole sending volume.
type SMTPSender struct {
	from   string
	logger *slog.Logger

	// clock stamps the Date header; injected for deterministic tests.
	clock func() time.Time

	// send performs the wire delivery; defaults to smtp.SendMail.
	send sendFunc

	mu       sync.Mutex
	accounts []Account
	cursor   int
}

// NewSMTPSender constructs a sender. At least one account is required.
func NewSMTPSender(accounts []Account, from string, logger *slog.Logger) (*SMTPSender, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("mail: no SMTP accounts configured")
	}

	return &SMTPSender{
		from:     from,
		logger:   logger,
		clock:    time.Now,
		send:     smtp.SendMail,
		accounts: accounts,
	}, nil
}

// Reload replaces the account list and resets the rotation cursor.
// This is the explicit invalidation point for credential rotation.
func (sender *SMTPSender) Reload(accounts []Account) error {
	if len(accounts) == 0 {
		return fmt.Errorf("mail: refusing to reload with an empty account list")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	sender.accounts = accounts
	sender.cursor = 0
	return nil
}

// Send delivers one message through the next relay in rotation.
func (sender *SMTPSender) Send(message Message) error {
	account := sender.nextAccount()

	body := sender.compose(message)
	auth := smtp.PlainAuth("", account.Username, account.Password, account.Host)

	if err := sender.send(account.Addr(), auth, sender.from, []string{message.To}, body); err != nil {
		sender.logger.Error("mail_delivery_failed",
			slog.String("relay", account.Addr()),
			slog.String("to", message.To),
			slog.Any("error", err),
		)
		return fmt.Errorf("mail: delivery via %s failed: %w", account.Addr(), err)
	}

	return nil
}

// nextAccount advances the round-robin cursor and returns the chosen relay.
func (sender *SMTPSender) nextAccount() Account {
	sender.mu.Lock()
	defer sender.mu.Unlock()

	account := sender.accounts[sender.cursor%len(sender.accounts)]
	sender.cursor++
	return account
}

// compose renders the full MIME payload for an HTML message.
func (sender *SMTPSender) compose(message Message) []byte {
	var builder strings.Builder

	builder.WriteString("From: " + sender.from + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("Date: " + sender.clock().UTC().Format(time.RFC1123Z) + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(message.HTML)

	return []byte(builder.String())
}
