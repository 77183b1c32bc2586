package audit

import "context"

// Store persists audit events. Append-only; events are never mutated or
// deleted, even when the user they reference is anonymized.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}
