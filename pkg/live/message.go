package live

import "github.com/vango-dev/weft/pkg/dom"

// Message types sent by the server.
const (
	TypeInit  = "init"
	TypePatch = "patch"
	TypeError = "error"
)

// TypeEvent is the message type sent by the client.
const TypeEvent = "event"

// ServerMessage is a message from the server to the client.
type ServerMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`

	// Seq numbers patches from 1 in send order.
	Seq uint64 `json:"seq,omitempty"`

	// Tree is the body snapshot sent with init.
	Tree      *dom.Snapshot  `json:"tree,omitempty"`
	Mutations []dom.Mutation `json:"mutations,omitempty"`

	Error string `json:"error,omitempty"`
}

// ClientMessage is an event from the client. ID is the target node.
type ClientMessage struct {
	Type    string  `json:"type"`
	ID      int64   `json:"id"`
	Event   string  `json:"event"`
	Value   *string `json:"value,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
	Key     string  `json:"key,omitempty"`
}
