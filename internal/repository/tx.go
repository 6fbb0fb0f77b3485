package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lol-leaderboard/internal/constants"
)

// inTx executes query once per item inside one transaction, DBBatchSize items at a time.
func inTx(ctx context.Context, db *sql.DB, query string, n int, args func(i int) ([]any, error)) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, n)

		for j := i; j < end; j++ {
			values, err := args(j)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, values...); err != nil {
				return fmt.Errorf("failed to write row %d: %w", j, err)
			}
		}
	}

	return tx.Commit()
}

func toNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
