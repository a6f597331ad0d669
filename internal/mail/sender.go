package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("Book Muse", from),
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.To)
	message := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
