package protocol

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dkeye/Poll/internal/domain"
)

func TestDecodeIntents(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Intent
	}{
		{
			name: "create",
			in:   `{"type":"CREATE_ROOM","payload":{"username":"alice"}}`,
			want: CreateRoom{Username: "alice"},
		},
		{
			name: "join normalizes code",
			in:   `{"type":"JOIN_ROOM","payload":{"username":"bob","roomId":" abc234 "}}`,
			want: JoinRoom{Username: "bob", RoomID: "ABC234"},
		},
		{
			name: "leave",
			in:   `{"type":"LEAVE_ROOM","payload":{"username":"bob","roomId":"ABC234"}}`,
			want: LeaveRoom{Username: "bob", RoomID: "ABC234"},
		},
		{
			name: "vote",
			in:   `{"type":"VOTE","payload":{"username":"bob","roomId":"ABC234","optionId":2}}`,
			want: Vote{Username: "bob", RoomID: "ABC234", OptionID: 2},
		},
		{
			name: "vote with unknown option still decodes",
			in:   `{"type":"VOTE","payload":{"username":"bob","roomId":"ABC234","optionId":0}}`,
			want: Vote{Username: "bob", RoomID: "ABC234", OptionID: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("intent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	inputs := map[string]string{
		"not json":          `{nope`,
		"unknown type":      `{"type":"SHOUT","payload":{"username":"a"}}`,
		"missing payload":   `{"type":"CREATE_ROOM"}`,
		"null payload":      `{"type":"CREATE_ROOM","payload":null}`,
		"payload not obj":   `{"type":"CREATE_ROOM","payload":"alice"}`,
		"empty username":    `{"type":"CREATE_ROOM","payload":{"username":""}}`,
		"join without room": `{"type":"JOIN_ROOM","payload":{"username":"a"}}`,
		"vote no option":    `{"type":"VOTE","payload":{"username":"a","roomId":"ABC234"}}`,
		"option as string":  `{"type":"VOTE","payload":{"username":"a","roomId":"ABC234","optionId":"1"}}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(in))
			if !errors.Is(err, domain.ErrMalformedMessage) {
				t.Fatalf("Decode(%s) err = %v, want ErrMalformedMessage", in, err)
			}
			if msg := domain.ClientMessage(err); msg != "Invalid message format" {
				t.Fatalf("client message = %q", msg)
			}
		})
	}
}

func TestEncodeIntentRoundTrip(t *testing.T) {
	in := Vote{Username: "carol", RoomID: "XYZ789", OptionID: 1}
	b, err := EncodeIntent(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Intent(in), got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestEncodeEventShape(t *testing.T) {
	end := time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)
	room := domain.Room{
		ID:           "ABC234",
		Question:     "Cats vs Dogs",
		Options:      []domain.Option{{ID: 1, Text: "Cats", Votes: 1}, {ID: 2, Text: "Dogs"}},
		CreatedAt:    end.Add(-time.Minute),
		CreatedBy:    "alice",
		EndTime:      end,
		Participants: []string{"alice"},
		Votes:        map[string]domain.OptionID{"alice": 1},
	}
	frame, err := Encode(VoteRecorded{Room: room, Vote: domain.Vote{Username: "alice", RoomID: "ABC234", OptionID: 1}})
	if err != nil {
		t.Fatal(err)
	}

	var raw struct {
		Type    string `json:"type"`
		Payload struct {
			Room map[string]any `json:"room"`
			Vote map[string]any `json:"vote"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(frame, &raw); err != nil {
		t.Fatal(err)
	}
	if raw.Type != "VOTE_RECORDED" {
		t.Fatalf("type = %q", raw.Type)
	}
	for _, key := range []string{"id", "question", "options", "createdAt", "createdBy", "endTime", "participants", "votes"} {
		if _, ok := raw.Payload.Room[key]; !ok {
			t.Errorf("room payload missing %q", key)
		}
	}
	if raw.Payload.Vote["optionId"] != float64(1) {
		t.Fatalf("vote payload = %v", raw.Payload.Vote)
	}

	back, err := DecodeEvent(frame)
	if err != nil {
		t.Fatal(err)
	}
	vr, ok := back.(VoteRecorded)
	if !ok {
		t.Fatalf("decoded %T", back)
	}
	if diff := cmp.Diff(room, vr.Room); diff != "" {
		t.Fatalf("room (-want +got):\n%s", diff)
	}
}

func TestEncodeRoomLeftAndError(t *testing.T) {
	frame, err := Encode(RoomLeft{RoomID: "ABC234"})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(frame); got != `{"type":"ROOM_LEFT","payload":{"roomId":"ABC234"}}` {
		t.Fatalf("frame = %s", got)
	}

	frame, err = Encode(Error{Message: "Invalid message format"})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(frame); got != `{"type":"ERROR","payload":{"message":"Invalid message format"}}` {
		t.Fatalf("frame = %s", got)
	}
}
