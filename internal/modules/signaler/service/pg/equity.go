package pg

import (
	"context"
	"fmt"

	"equity_trader/internal/models"
	"equity_trader/pkg/db"
)

const (
	insertEquity = `INSERT INTO equities (symbol, signal, created_at, updated_at)
VALUES ($1, $2, now(), now())
ON CONFLICT (symbol) DO NOTHING`

	selectEquity = `SELECT id, symbol, signal, created_at, updated_at
FROM equities
WHERE symbol = $1`

	updateSignal = `UPDATE equities
SET signal = $3, updated_at = now()
WHERE symbol = $1 AND signal = $2`
)

// Equity keeps one row per symbol in the equities table.
type Equity struct {
	db db.TxManager
}

// NewEquity instance
func NewEquity(tx db.TxManager) *Equity {
	return &Equity{db: tx}
}

// GetOrCreate returns the row for symbol, inserting it with the default signal when absent.
func (e *Equity) GetOrCreate(ctx context.Context, symbol string) (out models.Equity, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.GetOrCreate %s: %w", symbol, err)
		}
	}()

	err = e.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		if _, err := tx.Exec(ctxTx, insertEquity, symbol, int16(models.DefaultSignal)); err != nil {
			return err
		}
		return scanEquity(tx.QueryRow(ctxTx, selectEquity, symbol), &out)
	})
	return out, err
}

// UpdateSignal moves symbol from one signal to another. It reports false when the row
// no longer holds from, leaving it untouched.
func (e *Equity) UpdateSignal(ctx context.Context, symbol string, from, to models.Signal) (bool, error) {
	tag, err := e.db.Conn().Exec(ctx, updateSignal, symbol, int16(from), int16(to))
	if err != nil {
		return false, fmt.Errorf("pg.UpdateSignal %s: %w", symbol, err)
	}
	return tag.RowsAffected() == 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEquity(row scanner, eq *models.Equity) error {
	var code int16
	if err := row.Scan(&eq.ID, &eq.Symbol, &code, &eq.CreatedAt, &eq.UpdatedAt); err != nil {
		return err
	}
	eq.Signal = models.Signal(code)
	return nil
}
