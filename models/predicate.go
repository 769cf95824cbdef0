package models

import (
	"fmt"

	"github.com/google/uuid"
)

// FilterField enumerates the metadata fields retrieval may filter on.
// Closed set: free-form filter keys are rejected so callers cannot smuggle
// arbitrary predicates into the store query.
type FilterField string

const FieldSessionID FilterField = "session_id"

// FilterOp enumerates supported comparison operators.
type FilterOp string

const OpEqual FilterOp = "="

// Predicate is a typed metadata filter applied to vector retrieval.
type Predicate struct {
	Field FilterField
	Op    FilterOp
	Value uuid.UUID
}

// SessionEquals builds the exact-match session predicate used to scope
// retrieval to one session's documents.
func SessionEquals(sessionID uuid.UUID) Predicate {
	return Predicate{Field: FieldSessionID, Op: OpEqual, Value: sessionID}
}

// Validate rejects any predicate outside the closed field/operator set.
func (p Predicate) Validate() error {
	if p.Field != FieldSessionID {
		return fmt.Errorf("unsupported filter field: %q", p.Field)
	}
	if p.Op != OpEqual {
		return fmt.Errorf("unsupported filter operator: %q", p.Op)
	}
	if p.Value == uuid.Nil {
		return fmt.Errorf("filter value must be a non-nil session id")
	}
	return nil
}
