package notification

import (
	"context"
	"errors"
)

// ChannelType names a delivery channel.
type ChannelType string

const (
	// ChannelTypeLog writes notifications to the structured log.
	ChannelTypeLog ChannelType = "log"

	// ChannelTypeConsole prints notifications for the CLI user.
	ChannelTypeConsole ChannelType = "console"

	// ChannelTypeTelegram delivers through the Telegram Bot API.
	ChannelTypeTelegram ChannelType = "telegram"
)

// IsValid reports whether ct is a known channel.
func (ct ChannelType) IsValid() bool {
	switch ct {
	case ChannelTypeLog, ChannelTypeConsole, ChannelTypeTelegram:
		return true
	default:
		return false
	}
}

func (ct ChannelType) String() string {
	return string(ct)
}

// Channel delivers a notification. Implementations live in infrastructure.
type Channel interface {
	Type() ChannelType
	Send(ctx context.Context, n *Notification) error
}

// Sender is what event handlers use to fire a notification.
type Sender interface {
	Notify(ctx context.Context, t Type, title, body string) (*Notification, error)
}

// Channel errors.
var (
	ErrChannelUnavailable = errors.New("notification channel unavailable")
	ErrChatNotFound       = errors.New("chat not found")
	ErrRecipientBlocked   = errors.New("recipient blocked the bot")
)
