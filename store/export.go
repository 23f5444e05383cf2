package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/redstreet/fava-investor/performance"
)

// Run describes one exported split.
type Run struct {
	ID        int64
	Source    string
	Interval  string
	CreatedAt time.Time
}

// Amount is one stored position of a category in a period.
type Amount struct {
	Date     string
	Category string
	Currency string
	Number   decimal.Decimal
	Cost     sql.NullString
}

// Export writes every period and every computed category of r as a new run
// and returns its id.
func (s *Store) Export(ctx context.Context, source string, interval performance.Interval, r *performance.Result) (int64, error) {
	var runID int64
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO runs (source, interval) VALUES (?, ?)`, source, interval.String())
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		if runID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get run id: %w", err)
		}

		period, err := tx.PrepareContext(ctx, `INSERT INTO periods (run_id, idx, date, narration, synthetic) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer period.Close()
		amount, err := tx.PrepareContext(ctx, `INSERT INTO amounts (run_id, idx, category, currency, number, cost) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer amount.Close()

		for i, date := range r.Dates {
			var narration sql.NullString
			synthetic := false
			if txn := r.Transactions[i]; txn != nil {
				narration = sql.NullString{String: txn.Narration, Valid: true}
				synthetic = txn.Synthetic
			}
			if _, err := period.ExecContext(ctx, runID, i, date.Format("2006-01-02"), narration, synthetic); err != nil {
				return fmt.Errorf("failed to insert period %d: %w", i, err)
			}

			for _, c := range performance.AllCategories() {
				seq := r.Get(c)
				if i >= len(seq) {
					continue
				}
				for _, pos := range seq[i].Positions() {
					var cost sql.NullString
					if pos.Cost != nil {
						cost = sql.NullString{String: pos.Cost.String(), Valid: true}
					}
					if _, err := amount.ExecContext(ctx, runID, i, c.String(), pos.Units.Currency, pos.Units.Number.String(), cost); err != nil {
						return fmt.Errorf("failed to insert %s amount: %w", c, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return runID, nil
}

// Runs lists the exported runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, source, interval, created_at FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Source, &run.Interval, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Amounts returns the stored positions of category c in run, in period order.
func (s *Store) Amounts(ctx context.Context, run int64, c performance.Category) ([]Amount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.date, a.category, a.currency, a.number, a.cost
		FROM amounts a JOIN periods p ON p.run_id = a.run_id AND p.idx = a.idx
		WHERE a.run_id = ? AND a.category = ?
		ORDER BY a.idx, a.currency
	`, run, c.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query amounts: %w", err)
	}
	defer rows.Close()

	var amounts []Amount
	for rows.Next() {
		var a Amount
		var number string
		if err := rows.Scan(&a.Date, &a.Category, &a.Currency, &number, &a.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan amount: %w", err)
		}
		if a.Number, err = decimal.NewFromString(number); err != nil {
			return nil, fmt.Errorf("invalid stored number %q: %w", number, err)
		}
		amounts = append(amounts, a)
	}
	return amounts, rows.Err()
}

// Delete removes a run with its periods and amounts.
func (s *Store) Delete(ctx context.Context, run int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", run)
	}
	return nil
}
