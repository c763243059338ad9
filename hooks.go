package telnet

import "sync"

// EventHook is a function pointer registered to observe every Event a
// Connection emits, primarily for debug logging.
type EventHook func(conn *Connection, event Event)

// EventPublisher registers and fires EventHook callbacks in registration
// order. It is safe for concurrent Register/Fire calls, though a
// Connection itself is not otherwise safe for concurrent use.
type EventPublisher struct {
	lock sync.Mutex

	registeredHooks []EventHook
}

// NewPublisher creates a new EventPublisher, optionally pre-registering the
// given hooks.
func NewPublisher(hooks ...EventHook) *EventPublisher {
	return &EventPublisher{
		registeredHooks: append([]EventHook(nil), hooks...),
	}
}

// Register registers a single EventHook to receive events from this
// publisher.
func (e *EventPublisher) Register(hook EventHook) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.registeredHooks = append(e.registeredHooks, hook)
}

// Fire calls every hook registered to this publisher with the provided
// event.
func (e *EventPublisher) Fire(conn *Connection, event Event) {
	e.lock.Lock()
	hooks := e.registeredHooks
	e.lock.Unlock()

	for _, hook := range hooks {
		hook(conn, event)
	}
}
