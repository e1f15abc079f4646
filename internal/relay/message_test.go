package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInbound(t *testing.T) {
	t.Run("register frame", func(t *testing.T) {
		in, err := ParseInbound([]byte(`{"type":"register","client":"screen"}`))
		require.NoError(t, err)
		assert.Equal(t, TypeRegister, in.Type)
		assert.Equal(t, RoleScreen, in.Client)
		assert.Nil(t, in.Value)
	})

	t.Run("join frame", func(t *testing.T) {
		in, err := ParseInbound([]byte(`{"type":"joinRoom","roomCode":"4711"}`))
		require.NoError(t, err)
		assert.Equal(t, TypeJoinRoom, in.Type)
		assert.Equal(t, "4711", in.RoomCode)
	})

	t.Run("control frame with value", func(t *testing.T) {
		in, err := ParseInbound([]byte(`{"action":"seek","value":-10}`))
		require.NoError(t, err)
		assert.Empty(t, in.Type)
		assert.Equal(t, ActionSeek, in.Action)
		require.NotNil(t, in.Value)
		assert.Equal(t, -10.0, *in.Value)
	})

	t.Run("control frame without value", func(t *testing.T) {
		in, err := ParseInbound([]byte(`{"action":"play"}`))
		require.NoError(t, err)
		assert.Equal(t, ActionPlay, in.Action)
		assert.Nil(t, in.Value, "absent value must stay distinguishable from zero")
	})

	t.Run("zero value is present", func(t *testing.T) {
		in, err := ParseInbound([]byte(`{"action":"volume","value":0}`))
		require.NoError(t, err)
		require.NotNil(t, in.Value)
		assert.Equal(t, 0.0, *in.Value)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseInbound([]byte(`{"type":`))
		assert.Error(t, err)
	})

	t.Run("non-object payload", func(t *testing.T) {
		_, err := ParseInbound([]byte(`"play"`))
		assert.Error(t, err)
	})
}

func TestOutboundWireShapes(t *testing.T) {
	vol := 0.1

	tests := []struct {
		name  string
		frame Outbound
		want  string
	}{
		{"system", systemFrame("hi"), `{"type":"system","message":"hi"}`},
		{"room", roomFrame("1234", "room ready"), `{"type":"room","message":"room ready","roomCode":"1234"}`},
		{"ack without value", ackFrame(ActionPlay, nil), `{"type":"ack","action":"play"}`},
		{"ack with value", ackFrame(ActionVolume, &vol), `{"type":"ack","action":"volume","value":0.1}`},
		{"join ack", joinAckFrame("1234"), `{"type":"ack","roomCode":"1234","action":"joinRoom"}`},
		{"command", commandFrame(ActionPause, nil), `{"type":"command","action":"pause"}`},
		{"error", errorFrame("nope"), `{"type":"error","message":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.frame)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
