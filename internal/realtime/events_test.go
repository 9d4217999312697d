package realtime

import (
	"encoding/json"
	"testing"
)

func TestRoomChannelRoundTrip(t *testing.T) {
	channel := RoomChannel("abc-123")
	if channel != "room-abc-123" {
		t.Errorf("channel = %s", channel)
	}
	if got := RoomFromChannel(channel); got != "abc-123" {
		t.Errorf("room = %s, want abc-123", got)
	}
}

func TestRoomFromChannelRejectsOtherChannels(t *testing.T) {
	if got := RoomFromChannel("user-42"); got != "" {
		t.Errorf("room = %q, want empty", got)
	}
	if got := RoomFromChannel(""); got != "" {
		t.Errorf("room = %q, want empty", got)
	}
}

func TestNewEnvelopeEncodesPayload(t *testing.T) {
	env, err := NewEnvelope("room-1", EventUserTyping, TypingPayload{
		UserId:   "ai-japan",
		UserName: "Yuki Tanaka",
		IsTyping: true,
	})
	if err != nil {
		t.Fatalf("NewEnvelope error: %v", err)
	}
	if env.Channel != "room-1" || env.Event != EventUserTyping {
		t.Errorf("envelope header = %s/%s", env.Channel, env.Event)
	}

	var payload TypingPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if !payload.IsTyping || payload.UserId != "ai-japan" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestNewEnvelopeRejectsUnmarshalablePayload(t *testing.T) {
	if _, err := NewEnvelope("room-1", EventNewMessage, func() {}); err == nil {
		t.Fatal("expected marshal error")
	}
}
