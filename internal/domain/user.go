package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPin             = errors.New("pin must be exactly 4 digits")
	ErrFullNameTooLong        = errors.New("full name must be 100 characters or less")
	ErrVerificationRequired   = errors.New("user verification is required")
	ErrDocumentsRequired      = errors.New("all verification documents are required")
	ErrGuarantorsRequired     = errors.New("at least one guarantor is required")
	ErrInvalidDocumentType    = errors.New("invalid document type")
	ErrVerificationNotPending = errors.New("verification is not pending review")
	ErrNotAdmin               = errors.New("admin role required")
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// UserRole controls access to admin routes
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// VerificationStatus tracks the identity review of a user
type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "none"
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// DocumentType names a verification document
type DocumentType string

const (
	DocumentBankStatement DocumentType = "bankStatement"
	DocumentSalarySlip    DocumentType = "salarySlip"
	DocumentCNICFront     DocumentType = "cnicFront"
	DocumentCNICBack      DocumentType = "cnicBack"
	DocumentUtilityBill   DocumentType = "utilityBill"
)

// RequiredDocuments lists every document a verification submission must carry
var RequiredDocuments = []DocumentType{
	DocumentBankStatement,
	DocumentSalarySlip,
	DocumentCNICFront,
	DocumentCNICBack,
	DocumentUtilityBill,
}

// IsValidDocumentType reports whether t is a known document type
func IsValidDocumentType(t DocumentType) bool {
	for _, d := range RequiredDocuments {
		if d == t {
			return true
		}
	}
	return false
}

// BankDetails is where payouts are sent
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountTitle  string `json:"accountTitle"`
	AccountNumber string `json:"accountNumber"`
	IBAN          string `json:"iban,omitempty"`
}

// Guarantor vouches for a member
type Guarantor struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	CNIC         string `json:"cnic"`
	Relationship string `json:"relationship"`
}

// User represents a user in the system
type User struct {
	ID                  uuid.UUID               `json:"id"`
	Auth0ID             string                  `json:"auth0Id"`
	Email               string                  `json:"email"`
	Name                *string                 `json:"name"`
	PictureURL          *string                 `json:"pictureUrl"`
	Role                UserRole                `json:"role"`
	Username            *string                 `json:"username"`
	Phone               *string                 `json:"phone"`
	CNIC                *string                 `json:"cnic"`
	Address             *string                 `json:"address"`
	City                *string                 `json:"city"`
	State               *string                 `json:"state"`
	Pin                 *string                 `json:"-"`
	BankDetails         *BankDetails            `json:"bankDetails"`
	Documents           map[DocumentType]string `json:"documents"`
	Guarantors          []Guarantor             `json:"guarantors"`
	VerificationStatus  VerificationStatus      `json:"verificationStatus"`
	AdminReviewed       bool                    `json:"adminReviewed"`
	DocumentsSubmitted  bool                    `json:"documentsSubmitted"`
	VerificationRemarks *string                 `json:"verificationRemarks"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsVerified is true only once an admin has approved a complete document set.
func (u *User) IsVerified() bool {
	return u.VerificationStatus == VerificationApproved && u.AdminReviewed && u.DocumentsSubmitted
}

// IsProfileComplete reports whether every field needed to receive payouts is set
func (u *User) IsProfileComplete() bool {
	for _, f := range []*string{u.Name, u.Phone, u.CNIC, u.Address, u.City} {
		if f == nil || *f == "" {
			return false
		}
	}
	return u.BankDetails != nil && u.BankDetails.AccountNumber != ""
}

// DisplayName falls back to the email when no name is set
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// ValidatePin checks the 4 digit pin format
func ValidatePin(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPin
	}
	return nil
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string, role UserRole) (*User, error)
	Update(user *User) (*User, error)
	GetAll() ([]*User, error)
	GetByRole(role UserRole) ([]*User, error)
	GetByVerificationStatus(status VerificationStatus) ([]*User, error)
}
