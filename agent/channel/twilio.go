package channel

import (
	"context"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	twiliox "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/twilio"
)

var _ contractx.Messenger = (*TwilioMessenger)(nil)

// TwilioMessenger delivers over WhatsApp through Twilio.
type TwilioMessenger struct {
	client *twiliox.Client
}

func NewTwilioMessenger(client *twiliox.Client) *TwilioMessenger {
	return &TwilioMessenger{client: client}
}

func (m *TwilioMessenger) SendText(ctx context.Context, userID string, text string) error {
	_, err := m.client.SendText(ctx, userID, text)
	return err
}

func (m *TwilioMessenger) SendMedia(ctx context.Context, userID string, mediaURL string) error {
	_, err := m.client.SendMedia(ctx, userID, mediaURL)
	return err
}
