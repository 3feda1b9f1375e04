package event

import (
	"go.uber.org/zap"
	"sync"
)

// Bus delivers events to listeners synchronously, in subscription order.
type Bus struct {
	mu        sync.RWMutex
	listeners map[Type][]func(msg interface{})
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[Type][]func(msg interface{}))}
}

func (b *Bus) AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], callback)
}

// EmitEvent is a no-op on a nil bus.
func (b *Bus) EmitEvent(eventType Type, msg interface{}) {
	if b == nil {
		return
	}

	b.mu.RLock()
	listeners := b.listeners[eventType]
	b.mu.RUnlock()

	if len(listeners) == 0 {
		zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: No event listeners available")
		return
	}

	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
	for _, listener := range listeners {
		listener(msg)
	}
}
