package models

import "time"

// User is an account record. Username is the primary lookup key and is
// immutable once created; Verifier is the bcrypt hash of the password.
type User struct {
	ID        string
	Username  string
	Verifier  []byte
	CreatedAt time.Time
}
