package repository

import (
	"context"
	"database/sql"
)

// nextCounterTx atomically increments the named counter and returns the new
// value, inside the caller's transaction so the display ID is allocated
// together with the row that carries it. The ON DUPLICATE KEY UPDATE ...
// LAST_INSERT_ID form makes the increment-and-fetch a single statement, so
// concurrent allocations can never observe or mint the same value. Missing
// counters start at 1. Known counter names are "stadium", "subField" and
// "match".
func nextCounterTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO counters (name, seq) VALUES (?, LAST_INSERT_ID(1))
		 ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`,
		name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
