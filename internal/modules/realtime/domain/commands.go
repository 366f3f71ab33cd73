package domain

const (
	CommandSubscribe   = "subscribe"
	CommandUnsubscribe = "unsubscribe"
	CommandPing        = "ping"
	CommandToggle      = "toggle"
)

// ToggleCommand is the payload of a "toggle" command sent over the socket.
type ToggleCommand struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Action string `json:"action"`
}
