package domain

import "context"

// Transactor runs fn inside a database transaction. The tx value is passed
// to the repositories' *Tx methods; fn returning an error rolls back.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx any) error) error
}
