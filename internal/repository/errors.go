// Package repository implements MySQL persistence for the derived read
// model and the auth tables. Sentinel errors defined here let handlers
// distinguish failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrEventNotFound is returned when an event id is absent from the read
// model. Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrCredentialNotFound is returned when a token id has no mirror row.
var ErrCredentialNotFound = errors.New("credential not found")
