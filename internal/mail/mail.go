// Package mail delivers one-time codes over email.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Sender delivers a one-time code to an address.
type Sender interface {
	SendOTP(to, code string) error
}

// SMTPSender sends codes through a plain SMTP relay.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (s *SMTPSender) SendOTP(to, code string) error {
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	msg := []byte("From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: Your ChatNest OTP\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		fmt.Sprintf("<h3>Your OTP is: <b>%s</b></h3><p>It will expire in 5 minutes.</p>", code))

	addr := s.Host + ":" + s.Port
	return smtp.SendMail(addr, auth, s.From, []string{to}, msg)
}

// LogSender logs codes instead of emailing them, for development.
type LogSender struct {
	Logger zerolog.Logger
}

func (s *LogSender) SendOTP(to, code string) error {
	s.Logger.Info().Str("to", to).Str("code", code).Msg("otp issued (mail disabled)")
	return nil
}
