package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/enums"
)

// Transport sends a single message over the given channel and returns the
// provider message ID when one is issued.
type Transport interface {
	Send(ctx context.Context, channel enums.NotificationChannel, to, message string) (string, error)
}

type twilioTransport struct {
	client       *twilio.RestClient
	smsFrom      string
	whatsappFrom string
}

// NewTransport builds the outbound transport from config. Missing credentials
// yield a no-op transport so environments without Twilio still record logs.
func NewTransport(cfg config.TwilioConfig) Transport {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return noopTransport{}
	}
	return &twilioTransport{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		smsFrom:      cfg.SMSFrom,
		whatsappFrom: cfg.WhatsAppFrom,
	}
}

func (t *twilioTransport) Send(ctx context.Context, channel enums.NotificationChannel, to, message string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(message)

	switch channel {
	case enums.NotificationChannelWhatsApp:
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsappFrom)
	case enums.NotificationChannelSMS:
		params.SetTo(to)
		params.SetFrom(t.smsFrom)
	default:
		return "", fmt.Errorf("unsupported notification channel %q", channel)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type noopTransport struct{}

func (noopTransport) Send(ctx context.Context, channel enums.NotificationChannel, to, message string) (string, error) {
	return "", nil
}
