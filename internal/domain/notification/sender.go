package notification

import "context"

// Sender доставляет уведомление. Реализации: журнал, почтовый ящик в памяти.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// SenderFunc позволяет использовать функцию как Sender.
type SenderFunc func(ctx context.Context, n *Notification) error

// Send вызывает f.
func (f SenderFunc) Send(ctx context.Context, n *Notification) error {
	return f(ctx, n)
}
