// Package session resolves caller-supplied session identifiers to the
// canonical UUID used as the partition key for both document chunks and
// chat history. Callers may pass arbitrary strings; a string that already
// parses as a UUID is used as-is, anything else is deterministically
// mapped to a version-5 UUID so the same name always lands on the same
// session.
package session

import "github.com/google/uuid"

// Canonical returns the canonical UUID for a raw session identifier.
func Canonical(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(raw))
}
