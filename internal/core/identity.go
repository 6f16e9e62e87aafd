package core

import (
	"fmt"
	"math/rand/v2"
)

var adjectives = []string{
	"Red", "Blue", "Green", "Yellow", "Amber", "Crimson", "Violet", "Silver",
	"Golden", "Misty", "Silent", "Swift", "Brave", "Curious", "Gentle", "Wild",
}

var animals = []string{
	"Tiger", "Fox", "Bear", "Wolf", "Otter", "Heron", "Lynx", "Falcon",
	"Badger", "Raven", "Hare", "Moose", "Panda", "Viper", "Stork", "Seal",
}

// GenerateName returns an adjective-animal display name. Names are not
// globally unique; room-scoped collisions are handled at join time.
func GenerateName() string {
	return adjectives[rand.IntN(len(adjectives))] + "-" + animals[rand.IntN(len(animals))]
}

// GenerateRoomKey draws uniform 6-digit keys (100000-999999) until isTaken
// reports false. The caller is responsible for holding whatever lock makes
// the check-and-insert atomic.
func GenerateRoomKey(isTaken func(string) bool) string {
	for {
		key := fmt.Sprintf("%06d", 100000+rand.IntN(900000))
		if !isTaken(key) {
			return key
		}
	}
}

// ValidRoomKey reports whether key is exactly 6 ASCII digits. Keys stay
// strings end-to-end so a leading zero would survive a round trip.
func ValidRoomKey(key string) bool {
	if len(key) != 6 {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}
