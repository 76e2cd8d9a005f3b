package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7.
// UUIDv7 is time-ordered, so batch ids sort in the order runs happened.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the clock or entropy source fails
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
