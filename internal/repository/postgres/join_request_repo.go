package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const joinRequestColumns = `id, committee_id, user_id, preferred_slot, assigned_slot, status,
	remarks, reviewed_by, reviewed_at, created_at, updated_at`

// JoinRequestRepository implements domain.JoinRequestRepository using PostgreSQL
type JoinRequestRepository struct {
	pool *pgxpool.Pool
}

// NewJoinRequestRepository creates a new JoinRequestRepository
func NewJoinRequestRepository(pool *pgxpool.Pool) *JoinRequestRepository {
	return &JoinRequestRepository{pool: pool}
}

// Create inserts a pending request. The partial unique index on pending
// requests turns a duplicate into ErrJoinRequestExists.
func (r *JoinRequestRepository) Create(req *domain.JoinRequest) (*domain.JoinRequest, error) {
	logQuery("CreateJoinRequest")
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO join_requests (committee_id, user_id, preferred_slot)
		 VALUES ($1, $2, $3)
		 RETURNING `+joinRequestColumns,
		req.CommitteeID, req.UserID, req.PreferredSlot)
	created, err := scanJoinRequest(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrJoinRequestExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a join request
func (r *JoinRequestRepository) GetByID(id uuid.UUID) (*domain.JoinRequest, error) {
	logQuery("GetJoinRequestByID")
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+joinRequestColumns+` FROM join_requests WHERE id = $1`, id)
	return scanJoinRequest(row)
}

// GetAll lists every request, newest first
func (r *JoinRequestRepository) GetAll() ([]*domain.JoinRequest, error) {
	logQuery("GetAllJoinRequests")
	return r.list(`SELECT ` + joinRequestColumns + ` FROM join_requests ORDER BY created_at DESC`)
}

// GetByStatus lists requests in a status, oldest first
func (r *JoinRequestRepository) GetByStatus(status domain.JoinRequestStatus) ([]*domain.JoinRequest, error) {
	logQuery("GetJoinRequestsByStatus")
	return r.list(`SELECT `+joinRequestColumns+` FROM join_requests WHERE status = $1 ORDER BY created_at`, string(status))
}

// GetByUser lists a user's requests, newest first
func (r *JoinRequestRepository) GetByUser(userID uuid.UUID) ([]*domain.JoinRequest, error) {
	logQuery("GetJoinRequestsByUser")
	return r.list(`SELECT `+joinRequestColumns+` FROM join_requests WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// HasPending reports whether the user already waits on this committee
func (r *JoinRequestRepository) HasPending(committeeID, userID uuid.UUID) (bool, error) {
	logQuery("HasPendingJoinRequest")
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM join_requests WHERE committee_id = $1 AND user_id = $2 AND status = 'pending')`,
		committeeID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending join request: %w", err)
	}
	return exists, nil
}

// Review closes a pending request
func (r *JoinRequestRepository) Review(id uuid.UUID, review domain.JoinRequestReview) (*domain.JoinRequest, error) {
	return r.review(r.pool, id, review)
}

// ReviewTx closes a pending request inside a transaction
func (r *JoinRequestRepository) ReviewTx(tx any, id uuid.UUID, review domain.JoinRequestReview) (*domain.JoinRequest, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.review(pgxTx, id, review)
}

func (r *JoinRequestRepository) review(q querier, id uuid.UUID, review domain.JoinRequestReview) (*domain.JoinRequest, error) {
	logQuery("ReviewJoinRequest")
	row := q.QueryRow(context.Background(),
		`UPDATE join_requests SET status = $2, reviewed_by = $3, remarks = $4, assigned_slot = $5,
		   reviewed_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+joinRequestColumns,
		id, string(review.Status), review.ReviewerID, review.Remarks, review.AssignedSlot)
	req, err := scanJoinRequest(row)
	if errors.Is(err, domain.ErrJoinRequestNotFound) {
		if _, getErr := r.GetByID(id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrJoinRequestNotPending
	}
	return req, err
}

// Delete removes a request
func (r *JoinRequestRepository) Delete(id uuid.UUID) error {
	logQuery("DeleteJoinRequest")
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM join_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete join request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJoinRequestNotFound
	}
	return nil
}

func (r *JoinRequestRepository) list(sql string, args ...any) ([]*domain.JoinRequest, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*domain.JoinRequest, 0)
	for rows.Next() {
		req, err := scanJoinRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanJoinRequest(row pgx.Row) (*domain.JoinRequest, error) {
	var (
		req    domain.JoinRequest
		status string
	)
	err := row.Scan(
		&req.ID, &req.CommitteeID, &req.UserID, &req.PreferredSlot, &req.AssignedSlot, &status,
		&req.Remarks, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJoinRequestNotFound
		}
		return nil, fmt.Errorf("scan join request: %w", err)
	}
	req.Status = domain.JoinRequestStatus(status)
	return &req, nil
}
