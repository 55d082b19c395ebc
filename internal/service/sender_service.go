package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
)

// ContactDirectory resolves a renter's contact details. Owned by the
// identity subsystem, read-only here.
type ContactDirectory interface {
	ContactFor(ctx context.Context, userID uuid.UUID) (auth.Contact, error)
}

// SenderService notifies renters about booking outcomes by email and SMS.
// Delivery is fire-and-forget: a failed send is logged and never fails the
// transition that triggered it.
type SenderService struct {
	log       *zap.Logger
	directory ContactDirectory
}

func NewSenderService(log *zap.Logger, directory ContactDirectory) *SenderService {
	return &SenderService{log: log, directory: directory}
}

func (s *SenderService) BookingStatusChanged(b *booking.Booking) {
	switch b.Status {
	case booking.StatusAccepted, booking.StatusRefused, booking.StatusCancelled:
	default:
		return
	}
	go s.send(b)
}

func (s *SenderService) send(b *booking.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	contact, err := s.directory.ContactFor(ctx, b.RenterID)
	if err != nil {
		s.log.Warn("notify: no contact for renter",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Your charging booking is %s", b.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s is now %s.\n\n"+
			"Start: %s\nEnd: %s\nTotal: %.2f EUR\n",
		contact.Name, b.ID, b.Status,
		b.StartTime.Format("02 Jan 2006 15:04 MST"),
		b.EndTime.Format("02 Jan 2006 15:04 MST"),
		b.TotalPrice,
	)
	if b.TerminationReason != "" {
		body += fmt.Sprintf("Reason: %s\n", b.TerminationReason)
	}

	if err := SendEmailWithSendGrid(contact.Email, contact.Name, subject, body); err != nil {
		s.log.Warn("notify: email delivery failed",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
	if contact.Phone != "" {
		sms := fmt.Sprintf("voltbook: booking %s is %s. Start: %s. Details in your email.",
			shortID(b.ID), b.Status, b.StartTime.Format("02/01 15:04"))
		if err := SendSMS(contact.Phone, sms); err != nil {
			s.log.Warn("notify: sms delivery failed",
				zap.String("booking_id", b.ID.String()), zap.Error(err))
		}
	}
}

func shortID(id uuid.UUID) string {
	return strings.SplitN(id.String(), "-", 2)[0]
}

// SendEmailWithSendGrid sends one plain-text email through SendGrid. Returns
// an error when the API key is not configured so callers can log and move on.
func SendEmailWithSendGrid(toEmail, toName, subject, plainText string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not configured")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not configured")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "voltbook"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// SendSMS sends one SMS through Twilio.
func SendSMS(toNumber, body string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
