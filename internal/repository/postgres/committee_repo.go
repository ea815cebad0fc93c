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

const committeeColumns = `c.id, c.name, c.description, c.amount, c.member_count, c.duration,
	c.start_date, c.status, c.admin_id, c.created_at, c.updated_at,
	ARRAY(SELECT m.user_id::text FROM committee_members m WHERE m.committee_id = c.id ORDER BY m.joined_at) AS members`

// CommitteeRepository implements domain.CommitteeRepository using PostgreSQL
type CommitteeRepository struct {
	pool *pgxpool.Pool
}

// NewCommitteeRepository creates a new CommitteeRepository
func NewCommitteeRepository(pool *pgxpool.Pool) *CommitteeRepository {
	return &CommitteeRepository{pool: pool}
}

// Create inserts a committee
func (r *CommitteeRepository) Create(committee *domain.Committee) (*domain.Committee, error) {
	logQuery("CreateCommittee")
	amount, err := decimalToPgNumeric(committee.Amount)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = r.pool.QueryRow(context.Background(),
		`INSERT INTO committees (name, description, amount, member_count, duration, start_date, status, admin_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		committee.Name, committee.Description, amount, committee.MemberCount, committee.Duration,
		pgtype.Date{Time: committee.StartDate, Valid: true}, string(committee.Status), committee.AdminID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert committee: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a committee with its member list
func (r *CommitteeRepository) GetByID(id uuid.UUID) (*domain.Committee, error) {
	logQuery("GetCommitteeByID")
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+committeeColumns+` FROM committees c WHERE c.id = $1`, id)
	return scanCommittee(row)
}

// GetByIDForUpdateTx reads a committee and holds its row lock until the
// transaction ends. Slot reservations serialise on this lock.
func (r *CommitteeRepository) GetByIDForUpdateTx(tx any, id uuid.UUID) (*domain.Committee, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	logQuery("GetCommitteeByIDForUpdate")
	row := pgxTx.QueryRow(context.Background(),
		`SELECT `+committeeColumns+` FROM committees c WHERE c.id = $1 FOR UPDATE`, id)
	return scanCommittee(row)
}

// GetAll lists every committee, newest first
func (r *CommitteeRepository) GetAll() ([]*domain.Committee, error) {
	logQuery("GetAllCommittees")
	return r.list(`SELECT ` + committeeColumns + ` FROM committees c ORDER BY c.created_at DESC`)
}

// GetAvailable lists active committees with a free seat, newest first
func (r *CommitteeRepository) GetAvailable() ([]*domain.Committee, error) {
	logQuery("GetAvailableCommittees")
	return r.list(`SELECT ` + committeeColumns + ` FROM committees c
		WHERE c.status = 'active'
		  AND (SELECT COUNT(*) FROM committee_members m WHERE m.committee_id = c.id) < c.member_count
		ORDER BY c.created_at DESC`)
}

// GetByMember lists the committees a user belongs to
func (r *CommitteeRepository) GetByMember(userID uuid.UUID) ([]*domain.Committee, error) {
	logQuery("GetCommitteesByMember")
	return r.list(`SELECT `+committeeColumns+` FROM committees c
		JOIN committee_members cm ON cm.committee_id = c.id
		WHERE cm.user_id = $1
		ORDER BY c.start_date`, userID)
}

// UpdateTx writes the editable committee fields
func (r *CommitteeRepository) UpdateTx(tx any, committee *domain.Committee) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}
	logQuery("UpdateCommittee")
	amount, err := decimalToPgNumeric(committee.Amount)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(context.Background(),
		`UPDATE committees SET
		   name = $2, description = $3, amount = $4, member_count = $5, duration = $6,
		   start_date = $7, status = $8, updated_at = NOW()
		 WHERE id = $1`,
		committee.ID, committee.Name, committee.Description, amount, committee.MemberCount,
		committee.Duration, pgtype.Date{Time: committee.StartDate, Valid: true},
		string(committee.Status),
	)
	if err != nil {
		return fmt.Errorf("update committee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommitteeNotFound
	}
	return nil
}

// Delete removes a committee; members and join requests cascade
func (r *CommitteeRepository) Delete(id uuid.UUID) error {
	logQuery("DeleteCommittee")
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM committees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete committee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommitteeNotFound
	}
	return nil
}

// GetMembers lists members with their slot, in join order
func (r *CommitteeRepository) GetMembers(committeeID uuid.UUID) ([]*domain.CommitteeMember, error) {
	logQuery("GetCommitteeMembers")
	rows, err := r.pool.Query(context.Background(),
		`SELECT u.id, u.name, u.email,
		        (SELECT p.slot_number FROM payouts p
		          WHERE p.committee_id = cm.committee_id AND p.user_id = u.id
		          ORDER BY p.slot_number LIMIT 1),
		        cm.joined_at
		 FROM committee_members cm
		 JOIN users u ON u.id = cm.user_id
		 WHERE cm.committee_id = $1
		 ORDER BY cm.joined_at`, committeeID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]*domain.CommitteeMember, 0)
	for rows.Next() {
		var m domain.CommitteeMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.SlotNumber, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// AddMemberTx adds a member inside a transaction that already holds the
// committee row lock. Capacity and duplicates are checked here.
func (r *CommitteeRepository) AddMemberTx(tx any, committeeID, userID uuid.UUID) error {
	pgxTx, err := asTx(tx)
	if err != nil {
		return err
	}
	ctx := context.Background()
	logQuery("AddCommitteeMember")

	var capacity, current int32
	err = pgxTx.QueryRow(ctx,
		`SELECT c.member_count, (SELECT COUNT(*) FROM committee_members m WHERE m.committee_id = c.id)::int
		 FROM committees c WHERE c.id = $1`, committeeID,
	).Scan(&capacity, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCommitteeNotFound
		}
		return fmt.Errorf("check capacity: %w", err)
	}
	if current >= capacity {
		return domain.ErrCommitteeFull
	}

	_, err = pgxTx.Exec(ctx,
		`INSERT INTO committee_members (committee_id, user_id) VALUES ($1, $2)`,
		committeeID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *CommitteeRepository) list(sql string, args ...any) ([]*domain.Committee, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list committees: %w", err)
	}
	defer rows.Close()

	committees := make([]*domain.Committee, 0)
	for rows.Next() {
		c, err := scanCommittee(rows)
		if err != nil {
			return nil, err
		}
		committees = append(committees, c)
	}
	return committees, rows.Err()
}

func scanCommittee(row pgx.Row) (*domain.Committee, error) {
	var (
		c       domain.Committee
		amount  pgtype.Numeric
		status  string
		members []string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &amount, &c.MemberCount, &c.Duration,
		&c.StartDate, &status, &c.AdminID, &c.CreatedAt, &c.UpdatedAt,
		&members,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommitteeNotFound
		}
		return nil, fmt.Errorf("scan committee: %w", err)
	}
	c.Amount = pgNumericToDecimal(amount)
	c.Status = domain.CommitteeStatus(status)
	c.Members = parseUUIDs(members)
	c.CurrentRound = c.RoundAt(time.Now())
	return &c, nil
}
