package model

import "time"

// Credential mirrors one minted attendance credential into the
// `credentials` read table. Token ids come from the issuer's single
// global counter, so they are unique across all events.
//
// Fields:
//
//	TokenID  – globally unique, strictly increasing identifier.
//	EventID  – event the credential attests attendance of.
//	Account  – account the credential was minted to.
//	IssuedAt – Unix seconds of the verified check-out.
//	CreatedAt – timestamp the mirror row was written.
type Credential struct {
	TokenID   uint64    // credentials.token_id
	EventID   uint64    // credentials.event_id
	Account   string    // credentials.account
	IssuedAt  int64     // credentials.issued_at
	CreatedAt time.Time // credentials.created_at
}
