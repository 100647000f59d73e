package postgresql

import (
	"context"

	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
)

// GetQuerier returns the transaction carried by ctx, or the pool.
// Repositories call this so the same method works inside and outside a
// transaction boundary.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}
