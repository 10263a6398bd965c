package ws

const (
	// server - client
	MsgReady = "ready"
	MsgEvent = "event"
	MsgError = "error"
)

// Envelope is the frame every server message is wrapped in.
type Envelope struct {
	Type  string `json:"type"`
	Event any    `json:"event,omitempty"`
	Error string `json:"error,omitempty"`
}
