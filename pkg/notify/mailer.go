package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

type Message struct {
	To      []string
	Subject string
	Body    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(s.compose(msg))
}

func (s *SMTPSender) compose(msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

// InquiryMessages renders the staff alert and the client acknowledgement for
// a new inquiry.
func InquiryMessages(event *model.InquiryCreatedEvent, staffAddress string) []*Message {
	var msgs []*Message

	if staffAddress != "" {
		var b strings.Builder
		fmt.Fprintf(&b, "New inquiry #%d for %s\n\n", event.InquiryID, event.ServiceTitle)
		fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", event.Name, event.Email, event.Phone)
		if event.Company != "" {
			fmt.Fprintf(&b, "Company: %s\n", event.Company)
		}
		fmt.Fprintf(&b, "\n%s\n", event.Message)

		msgs = append(msgs, &Message{
			To:      []string{staffAddress},
			Subject: fmt.Sprintf("New inquiry: %s", event.ServiceTitle),
			Body:    b.String(),
		})
	}

	if event.Email != "" {
		msgs = append(msgs, &Message{
			To:      []string{event.Email},
			Subject: fmt.Sprintf("We received your inquiry about %s", event.ServiceTitle),
			Body: fmt.Sprintf("Dear %s,\n\nThank you for contacting us about %s. "+
				"A member of our team will be in touch shortly.\n", event.Name, event.ServiceTitle),
		})
	}
	return msgs
}
