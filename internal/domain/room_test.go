package domain

import (
	"errors"
	"testing"
	"time"
)

func TestRoomIsClosedAtEndTime(t *testing.T) {
	end := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := Room{EndTime: end}

	if r.IsClosed(end.Add(-time.Second)) {
		t.Fatal("room closed before end time")
	}
	if !r.IsClosed(end) {
		t.Fatal("room open at end time")
	}
	if !r.IsClosed(end.Add(time.Second)) {
		t.Fatal("room open after end time")
	}
}

func TestRoomCloneIsDeep(t *testing.T) {
	r := Room{
		Options:      []Option{{ID: 1, Text: "Cats"}},
		Participants: []string{"alice"},
		Votes:        map[string]OptionID{"alice": 1},
	}
	c := r.Clone()
	c.Options[0].Votes = 5
	c.Participants[0] = "mallory"
	c.Votes["bob"] = 2

	if r.Options[0].Votes != 0 || r.Participants[0] != "alice" || len(r.Votes) != 1 {
		t.Fatalf("clone shares state with original: %+v", r)
	}
}

func TestNormalizeRoomID(t *testing.T) {
	if got := NormalizeRoomID("  abc23x "); got != "ABC23X" {
		t.Fatalf("NormalizeRoomID = %q", got)
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername(""); !errors.Is(err, ErrUsernameEmpty) {
		t.Fatalf("empty: %v", err)
	}
	long := make([]byte, MaxUsernameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateUsername(string(long)); !errors.Is(err, ErrUsernameTooLong) {
		t.Fatalf("long: %v", err)
	}
	if err := ValidateUsername("alice"); err != nil {
		t.Fatalf("valid: %v", err)
	}
}

func TestClientMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewRoomError(ErrRoomNotFound, "ZZZZZZ"), "Room ZZZZZZ does not exist"},
		{NewRoomError(ErrAlreadyVoted, "ABCDEF"), "You have already voted in room ABCDEF"},
		{&RoomError{Err: ErrInvalidOption, RoomID: "ABCDEF", OptionID: 9}, "Option 9 does not exist in room ABCDEF"},
		{ErrMalformedMessage, "Invalid message format"},
	}
	for _, tc := range cases {
		if got := ClientMessage(tc.err); got != tc.want {
			t.Errorf("ClientMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
	if !errors.Is(NewRoomError(ErrPollClosed, "X"), ErrPollClosed) {
		t.Error("RoomError does not unwrap to its sentinel")
	}
}
