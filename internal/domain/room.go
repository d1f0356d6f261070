package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// canonicalUUIDLen is the length of the xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
const canonicalUUIDLen = 36

var ErrInvalidRoomID = errors.New("room id is not a version 4 uuid")

// RoomID is a client-chosen random UUIDv4. Anything else is not a room.
type RoomID string

// ParseRoomID validates s as a canonical RFC 4122 version 4 UUID and returns
// it in lower case.
func ParseRoomID(s string) (RoomID, error) {
	if len(s) != canonicalUUIDLen {
		return "", ErrInvalidRoomID
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoomID, err)
	}
	if u.Version() != 4 || u.Variant() != uuid.RFC4122 {
		return "", ErrInvalidRoomID
	}
	return RoomID(u.String()), nil
}

func IsRoomID(s string) bool {
	_, err := ParseRoomID(s)
	return err == nil
}
