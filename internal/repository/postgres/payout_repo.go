package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const payoutColumns = `id, committee_id, user_id, original_amount, fee_percentage, fee_amount,
	net_amount, fee_reason, slot_number, round, status, scheduled_date, completed_date,
	initiated_by, receipt_url, created_at, updated_at`

// PayoutRepository implements domain.PayoutRepository using PostgreSQL
type PayoutRepository struct {
	pool *pgxpool.Pool
}

// NewPayoutRepository creates a new PayoutRepository
func NewPayoutRepository(pool *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{pool: pool}
}

// GetByID retrieves a payout
func (r *PayoutRepository) GetByID(id uuid.UUID) (*domain.Payout, error) {
	logQuery("GetPayoutByID")
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id)
	return scanPayout(row)
}

// GetAll lists every payout by scheduled date
func (r *PayoutRepository) GetAll() ([]*domain.Payout, error) {
	logQuery("GetAllPayouts")
	return listPayouts(r.pool, `SELECT `+payoutColumns+` FROM payouts ORDER BY scheduled_date, slot_number`)
}

// GetByUser lists a user's payouts by scheduled date
func (r *PayoutRepository) GetByUser(userID uuid.UUID) ([]*domain.Payout, error) {
	logQuery("GetPayoutsByUser")
	return listPayouts(r.pool, `SELECT `+payoutColumns+` FROM payouts WHERE user_id = $1 ORDER BY scheduled_date`, userID)
}

// GetByCommittee lists a committee's payouts in slot order
func (r *PayoutRepository) GetByCommittee(committeeID uuid.UUID) ([]*domain.Payout, error) {
	logQuery("GetPayoutsByCommittee")
	return listPayouts(r.pool, `SELECT `+payoutColumns+` FROM payouts WHERE committee_id = $1 ORDER BY slot_number`, committeeID)
}

// GetByCommitteeTx is GetByCommittee inside a transaction
func (r *PayoutRepository) GetByCommitteeTx(tx any, committeeID uuid.UUID) ([]*domain.Payout, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	logQuery("GetPayoutsByCommittee")
	return listPayouts(pgxTx, `SELECT `+payoutColumns+` FROM payouts WHERE committee_id = $1 ORDER BY slot_number`, committeeID)
}

// ReserveSlotTx locks the committee row, refuses a slot that already has a
// holder, and inserts the payout. A unique violation on (committee_id,
// slot_number) from a writer that skipped the lock also maps to ErrSlotTaken.
func (r *PayoutRepository) ReserveSlotTx(tx any, payout *domain.Payout) (*domain.Payout, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	logQuery("ReservePayoutSlot")

	var locked uuid.UUID
	err = pgxTx.QueryRow(ctx,
		`SELECT id FROM committees WHERE id = $1 FOR UPDATE`, payout.CommitteeID,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommitteeNotFound
		}
		return nil, fmt.Errorf("lock committee: %w", err)
	}

	var taken bool
	err = pgxTx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payouts WHERE committee_id = $1 AND slot_number = $2)`,
		payout.CommitteeID, payout.SlotNumber,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return nil, domain.ErrSlotTaken
	}

	original, err := decimalToPgNumeric(payout.OriginalAmount)
	if err != nil {
		return nil, err
	}
	feePct, err := decimalToPgNumeric(payout.FeePercentage)
	if err != nil {
		return nil, err
	}
	feeAmount, err := decimalToPgNumeric(payout.FeeAmount)
	if err != nil {
		return nil, err
	}
	net, err := decimalToPgNumeric(payout.NetAmount)
	if err != nil {
		return nil, err
	}

	status := payout.Status
	if status == "" {
		status = domain.PayoutStatusPending
	}

	row := pgxTx.QueryRow(ctx,
		`INSERT INTO payouts (committee_id, user_id, original_amount, fee_percentage, fee_amount,
		   net_amount, fee_reason, slot_number, round, status, scheduled_date, initiated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+payoutColumns,
		payout.CommitteeID, payout.UserID, original, feePct, feeAmount, net, payout.FeeReason,
		payout.SlotNumber, payout.Round, string(status),
		pgtype.Date{Time: payout.ScheduledDate, Valid: true}, payout.InitiatedBy,
	)
	created, err := scanPayout(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}
	return created, nil
}

// Complete marks a pending payout completed
func (r *PayoutRepository) Complete(id uuid.UUID, completedAt time.Time) (*domain.Payout, error) {
	logQuery("CompletePayout")
	row := r.pool.QueryRow(context.Background(),
		`UPDATE payouts SET status = 'completed', completed_date = $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+payoutColumns, id, completedAt)
	p, err := scanPayout(row)
	if errors.Is(err, domain.ErrPayoutNotFound) {
		return nil, r.pendingMiss(id)
	}
	return p, err
}

// SetReceipt attaches a receipt image path
func (r *PayoutRepository) SetReceipt(id uuid.UUID, receiptURL string) (*domain.Payout, error) {
	logQuery("SetPayoutReceipt")
	row := r.pool.QueryRow(context.Background(),
		`UPDATE payouts SET receipt_url = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+payoutColumns, id, receiptURL)
	return scanPayout(row)
}

// DeletePending deletes a payout that has not been paid out
func (r *PayoutRepository) DeletePending(id uuid.UUID) error {
	logQuery("DeletePendingPayout")
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM payouts WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("delete payout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.pendingMiss(id)
	}
	return nil
}

// CountByCommittee counts payouts of a committee
func (r *PayoutRepository) CountByCommittee(committeeID uuid.UUID) (int64, error) {
	logQuery("CountPayoutsByCommittee")
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM payouts WHERE committee_id = $1`, committeeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count payouts: %w", err)
	}
	return count, nil
}

// pendingMiss tells apart a missing payout from one that is no longer pending
func (r *PayoutRepository) pendingMiss(id uuid.UUID) error {
	if _, err := r.GetByID(id); err != nil {
		return err
	}
	return domain.ErrPayoutNotPending
}

func listPayouts(q querier, sql string, args ...any) ([]*domain.Payout, error) {
	rows, err := q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	payouts := make([]*domain.Payout, 0)
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func scanPayout(row pgx.Row) (*domain.Payout, error) {
	var (
		p                                    domain.Payout
		original, feePct, feeAmount, netAmnt pgtype.Numeric
		status                               string
	)
	err := row.Scan(
		&p.ID, &p.CommitteeID, &p.UserID, &original, &feePct, &feeAmount,
		&netAmnt, &p.FeeReason, &p.SlotNumber, &p.Round, &status, &p.ScheduledDate, &p.CompletedDate,
		&p.InitiatedBy, &p.ReceiptURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("scan payout: %w", err)
	}
	p.OriginalAmount = pgNumericToDecimal(original)
	p.FeePercentage = pgNumericToDecimal(feePct)
	p.FeeAmount = pgNumericToDecimal(feeAmount)
	p.NetAmount = pgNumericToDecimal(netAmnt)
	p.Status = domain.PayoutStatus(status)
	return &p, nil
}
