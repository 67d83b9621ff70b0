package port

// Client-facing event names, shared by the hub transport and the services
// that publish through it.
const (
	EventReceiveMessage = "ReceiveMessage"
	EventLoadMessages   = "LoadMessages"
	EventError          = "Error"
)

// Subscriber is a single live connection that can receive events.
type Subscriber interface {
	Deliver(event string, payload any) error
}

// Broadcaster is the room fan-out primitive: a registry of live subscribers
// per room identifier.
type Broadcaster interface {
	Join(roomID string, s Subscriber)
	// Leave is idempotent.
	Leave(roomID string, s Subscriber)
	// Broadcast delivers the event to every current subscriber of the room.
	Broadcast(roomID string, event string, payload any)
}
