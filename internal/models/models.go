// Package models defines the core data structures for password records
// and the identities that own them.
package models

import "time"

// Principal identifies the caller of an operation. On the HTTPS boundary it is
// the Common Name of the verified client certificate.
type Principal string

// Password is a stored password record.
type Password struct {
	// Value is the stored secret text.
	Value string `json:"value"`
	// CreatedAt is set when the record is created and refreshed on every update.
	CreatedAt time.Time `json:"created_at"`
	// Owner is the identity that created the record. It never changes.
	Owner Principal `json:"owner"`
}

// PasswordPayload carries a password value without any metadata.
type PasswordPayload struct {
	Value string `json:"value"`
}

// Entry is a stored password together with the id it was assigned.
type Entry struct {
	ID uint64 `json:"id"`
	Password
}
