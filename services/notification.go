// services/notification.go
package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"
)

// NotificationService sends the best-effort side channels: WhatsApp via
// Twilio and email via SMTP. Senders return errors for the caller to log,
// never to abort a request on.
type NotificationService struct {
	client *twilio.RestClient
}

func NewNotificationService() *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendWhatsApp delivers a message to the given phone. Numbers without a
// leading + fall back to plain SMS.
func (s *NotificationService) SendWhatsApp(phone, body string) (string, error) {
	if phone == "" {
		return "", fmt.Errorf("no phone number on record")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	if strings.HasPrefix(phone, "+") {
		params.SetTo("whatsapp:" + phone)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// SendEmail delivers a plain-text notification through the configured SMTP
// relay.
func (s *NotificationService) SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP_HOST not set")
	}
	port := 587
	if env := os.Getenv("SMTP_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}
