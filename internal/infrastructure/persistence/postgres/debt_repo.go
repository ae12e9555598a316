// Package postgres implements the debt storage ports on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/debt-service/internal/domain/model"
	"github.com/bibbank/debt-service/internal/domain/port"
	"github.com/bibbank/debt-service/internal/domain/valueobject"
	pgpkg "github.com/bibbank/debt-service/pkg/postgres"
)

// DebtRepo implements port.DebtRepository and port.UnitOfWork.
type DebtRepo struct {
	pool *pgxpool.Pool
}

var (
	_ port.DebtRepository = (*DebtRepo)(nil)
	_ port.UnitOfWork     = (*DebtRepo)(nil)
)

// NewDebtRepo creates a new PostgreSQL-backed debt repository.
func NewDebtRepo(pool *pgxpool.Pool) *DebtRepo {
	return &DebtRepo{pool: pool}
}

// FindByID retrieves a debt by owner and ID.
func (r *DebtRepo) FindByID(ctx context.Context, ownerID, id string) (model.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE owner_id = $1 AND id = $2`
	d, err := scanDebt(r.pool.QueryRow(ctx, query, ownerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Debt{}, fmt.Errorf("%w: %s", model.ErrDebtNotFound, id)
	}
	return d, err
}

// FindSchedule retrieves the debt's lines ordered by period index.
func (r *DebtRepo) FindSchedule(ctx context.Context, debtID string) ([]model.ScheduleLine, error) {
	query := `SELECT ` + lineColumns + ` FROM schedule_lines WHERE debt_id = $1 ORDER BY period_index`
	rows, err := r.pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var lines []model.ScheduleLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// FindRateHistory retrieves the debt's rate history in application order.
func (r *DebtRepo) FindRateHistory(ctx context.Context, debtID string) ([]model.RateHistoryEntry, error) {
	query := `
		SELECT debt_id, effective_date, annual_rate
		FROM rate_history
		WHERE debt_id = $1
		ORDER BY effective_date, id
	`
	rows, err := r.pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("query rate history: %w", err)
	}
	defer rows.Close()

	var history []model.RateHistoryEntry
	for rows.Next() {
		var e model.RateHistoryEntry
		if err := rows.Scan(&e.DebtID, &e.EffectiveDate, &e.AnnualRate); err != nil {
			return nil, fmt.Errorf("scan rate history entry: %w", err)
		}
		e.EffectiveDate = dateOnly(e.EffectiveDate)
		history = append(history, e)
	}
	return history, rows.Err()
}

// FindPayments retrieves the debt's payments ordered by payment date.
func (r *DebtRepo) FindPayments(ctx context.Context, debtID string) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE debt_id = $1 ORDER BY paid_at, id`
	rows, err := r.pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListWithOpenLinesDueBefore returns debts with A_ECHOIR or PARTIEL lines due
// before cutoff. A zero limit returns every match.
func (r *DebtRepo) ListWithOpenLinesDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]port.DebtRef, error) {
	query := `
		SELECT DISTINCT d.owner_id, d.id
		FROM debts d
		JOIN schedule_lines l ON l.debt_id = d.id
		WHERE l.status = ANY($1)
		  AND l.due_date < $2
		  AND d.status <> $3
		ORDER BY d.id
		LIMIT NULLIF($4, 0)
	`
	open := []string{valueobject.LineStatusDue.String(), valueobject.LineStatusPartial.String()}
	rows, err := r.pool.Query(ctx, query, open, cutoff, valueobject.DebtStatusRestructured.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query overdue candidates: %w", err)
	}
	defer rows.Close()

	var refs []port.DebtRef
	for rows.Next() {
		var ref port.DebtRef
		if err := rows.Scan(&ref.OwnerID, &ref.DebtID); err != nil {
			return nil, fmt.Errorf("scan debt ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Ping checks database connectivity.
func (r *DebtRepo) Ping(ctx context.Context) error {
	return pgpkg.HealthCheck(ctx, r.pool)
}

// Commit writes the change set in one transaction.
func (r *DebtRepo) Commit(ctx context.Context, changes port.ChangeSet) error {
	if changes.IsEmpty() {
		return nil
	}
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, d := range changes.Debts {
			if err := saveDebt(ctx, tx, d); err != nil {
				return err
			}
		}
		for _, sc := range changes.Schedules {
			if err := saveSchedule(ctx, tx, sc); err != nil {
				return err
			}
		}
		for _, p := range changes.Payments {
			if err := insertPayment(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, e := range changes.Rates {
			if err := insertRate(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func saveDebt(ctx context.Context, q pgpkg.Querier, d model.Debt) error {
	query := `
		INSERT INTO debts (` + debtColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (id) DO UPDATE SET
			remaining_principal = EXCLUDED.remaining_principal,
			status              = EXCLUDED.status,
			version             = debts.version + 1,
			updated_at          = EXCLUDED.updated_at
		WHERE debts.version = $21
	`
	tag, err := q.Exec(ctx, query, debtArgs(d)...)
	if err != nil {
		return fmt.Errorf("save debt %s: %w", d.ID(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: debt %s changed since version %d", model.ErrConcurrentModification, d.ID(), d.Version())
	}
	return nil
}

func saveSchedule(ctx context.Context, tx pgx.Tx, sc port.ScheduleChange) error {
	if sc.Diff.IsEmpty() {
		return nil
	}

	batch := &pgx.Batch{}
	if len(sc.Diff.Deletes) > 0 {
		batch.Queue(`DELETE FROM schedule_lines WHERE debt_id = $1 AND period_index = ANY($2)`,
			sc.DebtID, sc.Diff.Deletes)
	}
	upsert := `
		INSERT INTO schedule_lines (` + lineColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (debt_id, period_index) DO UPDATE SET
			due_date                  = EXCLUDED.due_date,
			principal_due             = EXCLUDED.principal_due,
			interest_due              = EXCLUDED.interest_due,
			insurance_due             = EXCLUDED.insurance_due,
			fees_due                  = EXCLUDED.fees_due,
			principal_paid            = EXCLUDED.principal_paid,
			interest_paid             = EXCLUDED.interest_paid,
			insurance_paid            = EXCLUDED.insurance_paid,
			fees_paid                 = EXCLUDED.fees_paid,
			total_due                 = EXCLUDED.total_due,
			total_paid                = EXCLUDED.total_paid,
			remaining_principal_after = EXCLUDED.remaining_principal_after,
			rate_applied              = EXCLUDED.rate_applied,
			status                    = EXCLUDED.status
	`
	for _, l := range sc.Diff.Upserts {
		batch.Queue(upsert, lineArgs(l)...)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save schedule for debt %s: %w", sc.DebtID, err)
	}
	return nil
}

func insertPayment(ctx context.Context, q pgpkg.Querier, p model.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	if _, err := q.Exec(ctx, query, paymentArgs(p)...); err != nil {
		if pgpkg.IsUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s already recorded", model.ErrConcurrentModification, p.ID())
		}
		return fmt.Errorf("insert payment %s: %w", p.ID(), err)
	}
	return nil
}

func insertRate(ctx context.Context, q pgpkg.Querier, e model.RateHistoryEntry) error {
	query := `INSERT INTO rate_history (debt_id, effective_date, annual_rate) VALUES ($1, $2, $3)`
	if _, err := q.Exec(ctx, query, e.DebtID, e.EffectiveDate, e.AnnualRate); err != nil {
		return fmt.Errorf("insert rate for debt %s: %w", e.DebtID, err)
	}
	return nil
}
