package sessionclient

import "context"

// Notifier receives user-visible messages produced by the recovery
// coordinator, currently only business-conflict notices. Implementations must
// be safe for concurrent use and must not block: the coordinator calls Notify
// inline on the request path.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NoOpNotifier discards every notification. It is the default when no
// notifier is configured.
type NoOpNotifier struct{}

// Notify describes the notify operation and its observable behavior.
//
// Notify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpNotifier) Notify(context.Context, string) {}

// ChannelNotifier forwards notifications onto a channel with a non-blocking
// send. A full channel drops the message rather than stalling the request
// path.
type ChannelNotifier struct {
	C chan string
}

// NewChannelNotifier returns a ChannelNotifier with the given buffer size.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelNotifier{C: make(chan string, buffer)}
}

// Notify describes the notify operation and its observable behavior.
//
// Notify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (n *ChannelNotifier) Notify(_ context.Context, message string) {
	select {
	case n.C <- message:
	default:
	}
}
