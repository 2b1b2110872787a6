package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChatEvent(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		ev, err := DecodeChatEvent([]byte(`{"type":"message","content":"hello"}`))
		require.NoError(t, err)
		assert.Equal(t, MessageEvent{Content: "hello"}, ev)
	})

	t.Run("edit", func(t *testing.T) {
		ev, err := DecodeChatEvent([]byte(`{"type":"edit","message_id":42,"content":"fixed"}`))
		require.NoError(t, err)
		assert.Equal(t, EditEvent{MessageId: 42, Content: "fixed"}, ev)
	})

	t.Run("delete", func(t *testing.T) {
		ev, err := DecodeChatEvent([]byte(`{"type":"delete","message_id":42}`))
		require.NoError(t, err)
		assert.Equal(t, DeleteEvent{MessageId: 42}, ev)
	})

	t.Run("pin_unpin", func(t *testing.T) {
		ev, err := DecodeChatEvent([]byte(`{"type":"pin","message_id":7}`))
		require.NoError(t, err)
		assert.Equal(t, PinEvent{MessageId: 7}, ev)

		ev, err = DecodeChatEvent([]byte(`{"type":"unpin"}`))
		require.NoError(t, err)
		assert.Equal(t, UnpinEvent{}, ev)
	})

	t.Run("missing fields", func(t *testing.T) {
		cases := []string{
			`{"type":"message"}`,
			`{"type":"edit","message_id":42}`,
			`{"type":"edit","content":"x"}`,
			`{"type":"delete"}`,
			`{"type":"pin"}`,
		}
		for _, frame := range cases {
			_, err := DecodeChatEvent([]byte(frame))
			assert.ErrorIs(t, err, ErrMissingField, frame)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeChatEvent([]byte(`{"type":"typing","content":"x"}`))
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeChatEvent([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestDecodeVoiceSignal(t *testing.T) {
	t.Run("payload kept opaque", func(t *testing.T) {
		frame := `{"type":"offer","sdp":"v=0...","nested":{"a":1}}`
		fields, err := DecodeVoiceSignal([]byte(frame))
		require.NoError(t, err)
		assert.JSONEq(t, `"v=0..."`, string(fields["sdp"]))
		assert.JSONEq(t, `{"a":1}`, string(fields["nested"]))
	})

	t.Run("all signal kinds accepted", func(t *testing.T) {
		for _, kind := range []string{SignalOffer, SignalAnswer, SignalCandidate} {
			_, err := DecodeVoiceSignal([]byte(`{"type":"` + kind + `"}`))
			assert.NoError(t, err, kind)
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := DecodeVoiceSignal([]byte(`{"type":"mute"}`))
		assert.ErrorIs(t, err, ErrUnknownEventType)

		_, err = DecodeVoiceSignal([]byte(`{"sdp":"v=0"}`))
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})
}

func TestStampSender(t *testing.T) {
	fields, err := DecodeVoiceSignal([]byte(`{"type":"candidate","candidate":"c=0"}`))
	require.NoError(t, err)

	payload, err := StampSender(fields, 77)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, float64(77), out["sender_id"])
	assert.Equal(t, "candidate", out["type"])
	assert.Equal(t, "c=0", out["candidate"])
}

func TestDecodeStatusEvent(t *testing.T) {
	ev, err := DecodeStatusEvent([]byte(`{"type":"status_change","status":"idle"}`))
	require.NoError(t, err)
	assert.Equal(t, "idle", ev.Status)

	_, err = DecodeStatusEvent([]byte(`{"type":"status_change"}`))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeStatusEvent([]byte(`{"type":"message","content":"x"}`))
	assert.ErrorIs(t, err, ErrUnknownEventType)
}
