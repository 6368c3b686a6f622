package enums

import "fmt"

// NotificationChannel is the outbound message channel.
type NotificationChannel string

const (
	NotificationChannelSMS      NotificationChannel = "SMS"
	NotificationChannelWhatsApp NotificationChannel = "WHATSAPP"
)

// String implements fmt.Stringer.
func (c NotificationChannel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known NotificationChannel.
func (c NotificationChannel) IsValid() bool {
	return c == NotificationChannelSMS || c == NotificationChannelWhatsApp
}

// ParseNotificationChannel converts raw input into a NotificationChannel.
func ParseNotificationChannel(value string) (NotificationChannel, error) {
	switch NotificationChannel(value) {
	case NotificationChannelSMS:
		return NotificationChannelSMS, nil
	case NotificationChannelWhatsApp:
		return NotificationChannelWhatsApp, nil
	default:
		return "", fmt.Errorf("invalid notification channel %q", value)
	}
}

// NotificationStatus is the delivery state recorded in the audit log.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// String implements fmt.Stringer.
func (s NotificationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known NotificationStatus.
func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusFailed:
		return true
	default:
		return false
	}
}
