package events

import (
	"sync"

	"go.uber.org/zap"
)

// Handler receives an event payload.
type Handler func(payload interface{})

// Bus dispatches events to subscribed handlers. Delivery is synchronous and
// in subscription order, so under the one-operation-at-a-time execution
// model subscribers observe events exactly in commit order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	log      *zap.Logger
}

// NewBus creates a bus. A nil logger disables logging.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[Type][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[t] = append(b.handlers[t], h)
	b.log.With(zap.String("type", string(t))).Debug("events: handler subscribed")
}

// Emit delivers the payload to every handler subscribed to the type.
func (b *Bus) Emit(t Type, payload interface{}) {
	b.mu.RLock()
	handlers := b.handlers[t]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.With(zap.String("type", string(t))).Debug("events: no handlers")
		return
	}

	b.log.With(zap.String("type", string(t))).Debug("events: emitting")
	for _, h := range handlers {
		h(payload)
	}
}
