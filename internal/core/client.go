package core

// eventBuffer bounds the per-connection outbound queue. A connection whose
// buffer stays full is treated as dead by the fan-out.
const eventBuffer = 32

// Client is one live connection as seen by the core layer. The transport
// drains Events into the physical socket in its own write loop.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a client with an initialized event queue.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, eventBuffer),
	}
}

// send enqueues an event without blocking. Returns false if the queue is full.
func (c *Client) send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
