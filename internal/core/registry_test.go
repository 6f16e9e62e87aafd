package core

import (
	"errors"
	"testing"
)

func TestCreateRoomKeysUnique(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]struct{})

	for range 200 {
		room, admin := reg.CreateRoom()
		if !ValidRoomKey(room.Key) {
			t.Fatalf("invalid room key %q", room.Key)
		}
		if _, dup := seen[room.Key]; dup {
			t.Fatalf("duplicate room key %q", room.Key)
		}
		seen[room.Key] = struct{}{}

		if admin == "" {
			t.Fatal("empty admin identity")
		}
		if got := room.Admin(); got != admin {
			t.Fatalf("admin = %q, want %q", got, admin)
		}
		if members := room.Members(); len(members) != 1 || members[0] != admin {
			t.Fatalf("members = %v, want [%s]", members, admin)
		}
	}

	if reg.Len() != 200 {
		t.Fatalf("registry holds %d rooms, want 200", reg.Len())
	}
}

func TestRoomLookupUnknownKey(t *testing.T) {
	reg := NewRegistry()
	// Generated keys start at 100000, so 000000 can never exist.
	if _, err := reg.Room("000000"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomLookupInvalidKey(t *testing.T) {
	reg := NewRegistry()
	for _, key := range []string{"", "12345", "1234567", "12a456", "123 56"} {
		if _, err := reg.Room(key); !errors.Is(err, ErrInvalidRoomKey) {
			t.Fatalf("key %q: err = %v, want ErrInvalidRoomKey", key, err)
		}
	}
}

func TestCloseRoomAuthorization(t *testing.T) {
	reg := NewRegistry()
	room, admin := reg.CreateRoom()

	if err := reg.CloseRoom(room.Key, "Someone-Else"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("close by non-admin: err = %v, want ErrNotAuthorized", err)
	}
	if _, err := reg.Room(room.Key); err != nil {
		t.Fatalf("room vanished after rejected close: %v", err)
	}

	if err := reg.CloseRoom(room.Key, admin); err != nil {
		t.Fatalf("close by admin: %v", err)
	}
	if _, err := reg.Room(room.Key); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("lookup after close: err = %v, want ErrRoomNotFound", err)
	}
	if err := reg.CloseRoom(room.Key, admin); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("second close: err = %v, want ErrRoomNotFound", err)
	}
}
