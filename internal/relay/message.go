package relay

import "encoding/json"

// Frame type discriminants exchanged with clients.
const (
	TypeRegister = "register"
	TypeJoinRoom = "joinRoom"
	TypeSystem   = "system"
	TypeRoom     = "room"
	TypeAck      = "ack"
	TypeCommand  = "command"
	TypeError    = "error"
)

// Roles a client may declare in a register frame.
const (
	RoleScreen = "screen"
	RoleRemote = "remote"
)

// Playback actions relayed between room members.
const (
	ActionPlay   = "play"
	ActionPause  = "pause"
	ActionSeek   = "seek"
	ActionVolume = "volume"
)

// Inbound is one parsed client frame. Lifecycle frames carry Type,
// control frames carry Action; Value is nil when the field was absent,
// which matters for actions that require one.
type Inbound struct {
	Type     string   `json:"type,omitempty"`
	Client   string   `json:"client,omitempty"`
	RoomCode string   `json:"roomCode,omitempty"`
	Action   string   `json:"action,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// Outbound is one server frame. Unused fields are omitted so every
// frame shape shares a single struct on the wire.
type Outbound struct {
	Type     string   `json:"type"`
	Message  string   `json:"message,omitempty"`
	RoomCode string   `json:"roomCode,omitempty"`
	Action   string   `json:"action,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// ParseInbound decodes a raw text frame. A parse error is the caller's
// cue to answer with an error frame; it is never fatal to the connection.
func ParseInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

func systemFrame(message string) Outbound {
	return Outbound{Type: TypeSystem, Message: message}
}

func roomFrame(code, message string) Outbound {
	return Outbound{Type: TypeRoom, RoomCode: code, Message: message}
}

func ackFrame(action string, value *float64) Outbound {
	return Outbound{Type: TypeAck, Action: action, Value: value}
}

// joinAckFrame confirms a join; it references the room so the client
// can show which session it controls.
func joinAckFrame(code string) Outbound {
	return Outbound{Type: TypeAck, Action: TypeJoinRoom, RoomCode: code}
}

func commandFrame(action string, value *float64) Outbound {
	return Outbound{Type: TypeCommand, Action: action, Value: value}
}

func errorFrame(message string) Outbound {
	return Outbound{Type: TypeError, Message: message}
}
