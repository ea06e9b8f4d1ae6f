package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/brayner/brayner/internal/domain/notification"
	"github.com/brayner/brayner/pkg/logger"
)

// LogChannel writes notifications to the structured log.
type LogChannel struct {
	log *logger.Logger
}

// NewLogChannel creates a LogChannel.
func NewLogChannel(log *logger.Logger) *LogChannel {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogChannel{log: log}
}

func (c *LogChannel) Type() notification.ChannelType { return notification.ChannelTypeLog }

func (c *LogChannel) Send(_ context.Context, n *notification.Notification) error {
	c.log.Info("notification",
		logger.String("type", n.Type.String()),
		logger.String("title", n.Title),
		logger.String("body", n.Body),
	)
	return nil
}

// ConsoleChannel prints notifications, one per line, for the CLI user.
type ConsoleChannel struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleChannel creates a ConsoleChannel writing to w.
func NewConsoleChannel(w io.Writer) *ConsoleChannel {
	return &ConsoleChannel{w: w}
}

func (c *ConsoleChannel) Type() notification.ChannelType { return notification.ChannelTypeConsole }

func (c *ConsoleChannel) Send(_ context.Context, n *notification.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "🔔 %s\n", n); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrChannelUnavailable, err)
	}
	return nil
}

var (
	_ notification.Channel = (*LogChannel)(nil)
	_ notification.Channel = (*ConsoleChannel)(nil)
)
