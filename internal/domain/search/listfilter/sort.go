package listfilter

import (
	"fmt"

	"github.com/clearfact/artidex/internal/domain"
)

// SortKey is an abstract sort key; the sort compiler maps it to a physical
// sort clause.
type SortKey string

// Supported sort keys.
const (
	SortRelevance         SortKey = "_score"
	SortCreatedAt         SortKey = "createdAt"
	SortUpdatedAt         SortKey = "updatedAt"
	SortLastRequestedAt   SortKey = "lastRequestedAt"
	SortReplyCount        SortKey = "replyCount"
	SortReplyRequestCount SortKey = "replyRequestCount"
	SortLastRepliedAt     SortKey = "lastRepliedAt"
)

// IsValid reports whether k is a known sort key.
func (k SortKey) IsValid() bool {
	switch k {
	case SortRelevance, SortCreatedAt, SortUpdatedAt, SortLastRequestedAt,
		SortReplyCount, SortReplyRequestCount, SortLastRepliedAt:
		return true
	}
	return false
}

// Order is a sort direction in the input specification.
type Order string

// Sort orders.
const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// Sort is one (key, direction) pair of the sort specification.
type Sort struct {
	Key   SortKey
	Order Order
}

// ValidateSorts checks a sort specification for known keys and orders.
func ValidateSorts(sorts []Sort) error {
	for _, s := range sorts {
		if !s.Key.IsValid() {
			return fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidSort, s.Key)
		}
		switch s.Order {
		case "", OrderAsc, OrderDesc:
		default:
			return fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidSort, s.Order)
		}
	}
	return nil
}
