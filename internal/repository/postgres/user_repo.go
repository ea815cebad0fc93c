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

const userColumns = `id, auth0_id, email, name, picture_url, role, username, phone, cnic,
	address, city, state, pin, bank_details, documents, guarantors, verification_status,
	admin_reviewed, documents_submitted, verification_remarks, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	logQuery("GetUserByID")
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	logQuery("GetUserByAuth0ID")
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID creates a new user or returns the existing one (upsert on login).
// Role only applies on insert; an existing user's role is left alone.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string, role domain.UserRole) (*domain.User, error) {
	logQuery("CreateOrGetUserByAuth0ID")
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO users (auth0_id, email, name, picture_url, role)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (auth0_id) DO UPDATE SET
		   email = EXCLUDED.email,
		   picture_url = COALESCE(EXCLUDED.picture_url, users.picture_url),
		   updated_at = NOW()
		 RETURNING `+userColumns,
		auth0ID, email, name, pictureURL, string(role))
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

// Update writes every mutable profile and verification field
func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	logQuery("UpdateUser")
	documents := user.Documents
	if documents == nil {
		documents = map[domain.DocumentType]string{}
	}
	guarantors := user.Guarantors
	if guarantors == nil {
		guarantors = []domain.Guarantor{}
	}

	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET
		   name = $2, username = $3, phone = $4, cnic = $5, address = $6, city = $7,
		   state = $8, pin = $9, bank_details = $10, documents = $11, guarantors = $12,
		   verification_status = $13, admin_reviewed = $14, documents_submitted = $15,
		   verification_remarks = $16, role = $17, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Username, user.Phone, user.CNIC, user.Address, user.City,
		user.State, user.Pin, user.BankDetails, documents, guarantors,
		string(user.VerificationStatus), user.AdminReviewed, user.DocumentsSubmitted,
		user.VerificationRemarks, string(user.Role))
	return scanUser(row)
}

// GetAll lists every user, newest first
func (r *UserRepository) GetAll() ([]*domain.User, error) {
	logQuery("GetAllUsers")
	return r.list(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
}

// GetByRole lists users with the given role
func (r *UserRepository) GetByRole(role domain.UserRole) ([]*domain.User, error) {
	logQuery("GetUsersByRole")
	return r.list(`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`, string(role))
}

// GetByVerificationStatus lists users awaiting or past review, oldest submission first
func (r *UserRepository) GetByVerificationStatus(status domain.VerificationStatus) ([]*domain.User, error) {
	logQuery("GetUsersByVerificationStatus")
	return r.list(`SELECT `+userColumns+` FROM users WHERE verification_status = $1 ORDER BY updated_at`, string(status))
}

func (r *UserRepository) list(sql string, args ...any) ([]*domain.User, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u          domain.User
		role       string
		status     string
		documents  map[domain.DocumentType]string
		guarantors []domain.Guarantor
	)
	err := row.Scan(
		&u.ID, &u.Auth0ID, &u.Email, &u.Name, &u.PictureURL, &role, &u.Username, &u.Phone, &u.CNIC,
		&u.Address, &u.City, &u.State, &u.Pin, &u.BankDetails, &documents, &guarantors, &status,
		&u.AdminReviewed, &u.DocumentsSubmitted, &u.VerificationRemarks, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = domain.UserRole(role)
	u.VerificationStatus = domain.VerificationStatus(status)
	u.Documents = documents
	if u.Documents == nil {
		u.Documents = map[domain.DocumentType]string{}
	}
	u.Guarantors = guarantors
	if u.Guarantors == nil {
		u.Guarantors = []domain.Guarantor{}
	}
	return &u, nil
}
