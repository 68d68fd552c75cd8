// Package repository provides the PostgreSQL implementations of the domain
// repository interfaces. Multi-statement mutations (seat reservation, rating
// aggregation) run inside explicit transactions; the seat decrement locks the
// trip row so concurrent reservations serialize instead of overselling.
package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rumbocarpool/backend/pkg/database"
)

// sqlxTx unwraps the transaction handle passed down from a service. Only
// *sqlx.Tx values produced by BeginTx are valid here.
func sqlxTx(tx database.Tx) (*sqlx.Tx, error) {
	t, ok := tx.(*sqlx.Tx)
	if !ok {
		return nil, fmt.Errorf("repository: unexpected transaction type %T", tx)
	}
	return t, nil
}
