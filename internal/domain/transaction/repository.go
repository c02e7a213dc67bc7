package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for ledger data access. Entries are
// append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)

	// ListByAccountID returns entries where the account is source or
	// destination, newest first.
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)

	// ListBySourceAccountsAndType returns entries of one type whose source is
	// any of the given accounts, with from <= timestamp < to, oldest first.
	ListBySourceAccountsAndType(ctx context.Context, accountIDs []uuid.UUID, typ Type, from, to time.Time) ([]*Transaction, error)
}
