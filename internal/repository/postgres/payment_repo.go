package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentSelect = `SELECT p.id, p.committee_id, p.user_id, p.amount, p.round, p.receipt_url,
	p.status, p.remarks, p.reviewed_by, u.name, p.reviewed_at, p.created_at, p.updated_at
	FROM payments p
	LEFT JOIN users u ON u.id = p.reviewed_by`

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a pending payment
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	logQuery("CreatePayment")
	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = r.pool.QueryRow(context.Background(),
		`INSERT INTO payments (committee_id, user_id, amount, round, receipt_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		payment.CommitteeID, payment.UserID, amount, payment.Round, payment.ReceiptURL,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a payment with its reviewer name
func (r *PaymentRepository) GetByID(id uuid.UUID) (*domain.Payment, error) {
	logQuery("GetPaymentByID")
	row := r.pool.QueryRow(context.Background(), paymentSelect+` WHERE p.id = $1`, id)
	return scanPayment(row)
}

// GetAll lists every payment, newest first
func (r *PaymentRepository) GetAll() ([]*domain.Payment, error) {
	logQuery("GetAllPayments")
	return r.list(paymentSelect + ` ORDER BY p.created_at DESC`)
}

// GetByStatus lists payments in a status, oldest first so reviews go in order
func (r *PaymentRepository) GetByStatus(status domain.PaymentStatus) ([]*domain.Payment, error) {
	logQuery("GetPaymentsByStatus")
	return r.list(paymentSelect+` WHERE p.status = $1 ORDER BY p.created_at`, string(status))
}

// GetByUser lists a user's payments, newest first
func (r *PaymentRepository) GetByUser(userID uuid.UUID) ([]*domain.Payment, error) {
	logQuery("GetPaymentsByUser")
	return r.list(paymentSelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC`, userID)
}

// Review moves a pending payment to approved or rejected
func (r *PaymentRepository) Review(id uuid.UUID, status domain.PaymentStatus, reviewerID uuid.UUID, remarks *string) (*domain.Payment, error) {
	logQuery("ReviewPayment")
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE payments SET status = $2, reviewed_by = $3, remarks = $4, reviewed_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		id, string(status), reviewerID, remarks)
	if err != nil {
		return nil, fmt.Errorf("review payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, domain.ErrPaymentNotPending
	}
	return r.GetByID(id)
}

// Delete removes a payment
func (r *PaymentRepository) Delete(id uuid.UUID) error {
	logQuery("DeletePayment")
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) list(sql string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		amount pgtype.Numeric
		status string
	)
	err := row.Scan(
		&p.ID, &p.CommitteeID, &p.UserID, &amount, &p.Round, &p.ReceiptURL,
		&status, &p.Remarks, &p.ReviewedBy, &p.ReviewerName, &p.ReviewedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.Amount = pgNumericToDecimal(amount)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}
