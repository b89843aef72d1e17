// Package notify provides notification.Sender implementations: a structured
// log sink, a bounded in-memory inbox the CLI drains after each command, and
// a fan-out that combines them.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/rn-academy/progress-hub/internal/domain/notification"
	"github.com/rn-academy/progress-hub/pkg/logger"
)

// LogSender writes every notification as an info log line.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(log *logger.Logger) *LogSender {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSender{log: log.With(logger.Component("notifier"))}
}

// Send implements notification.Sender.
func (s *LogSender) Send(_ context.Context, n *notification.Notification) error {
	fields := []logger.Field{
		logger.Profile(n.Profile),
		logger.String("type", string(n.Type)),
		logger.String("priority", n.Priority.String()),
		logger.String("title", n.Title),
	}
	for k, v := range n.Metadata {
		fields = append(fields, logger.String(k, v))
	}
	s.log.Info(n.Text(), fields...)
	return nil
}

// DefaultInboxSize caps queued notifications per profile.
const DefaultInboxSize = 50

// Inbox keeps the latest notifications per profile until drained.
type Inbox struct {
	mu    sync.Mutex
	size  int
	items map[string][]*notification.Notification
}

// NewInbox creates an inbox holding at most size entries per profile.
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	return &Inbox{size: size, items: make(map[string][]*notification.Notification)}
}

// Send implements notification.Sender. The oldest entry is dropped when full.
func (i *Inbox) Send(_ context.Context, n *notification.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	list := append(i.items[n.Profile], n)
	if len(list) > i.size {
		list = list[len(list)-i.size:]
	}
	i.items[n.Profile] = list
	return nil
}

// Drain returns and clears the queued notifications of profile, oldest first.
func (i *Inbox) Drain(profile string) []*notification.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	list := i.items[profile]
	delete(i.items, profile)
	return list
}

// Fanout sends to every sender and joins their errors.
type Fanout []notification.Sender

// Send implements notification.Sender.
func (f Fanout) Send(ctx context.Context, n *notification.Notification) error {
	var errs []error
	for _, s := range f {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
