package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/dafibh/committee/committee-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	order    []uuid.UUID
	CreateFn func(auth0ID, email string, name, pictureURL *string, role domain.UserRole) (*domain.User, error)
	UpdateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string, role domain.UserRole) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL, role)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	now := time.Now()
	user := &domain.User{
		ID:                 uuid.New(),
		Auth0ID:            auth0ID,
		Email:              email,
		Name:               name,
		PictureURL:         pictureURL,
		Role:               role,
		VerificationStatus: domain.VerificationNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	m.AddUser(user)
	return user, nil
}

// Update updates an existing user
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(user)
	}
	if _, ok := m.ByID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// GetAll returns users in insertion order
func (m *MockUserRepository) GetAll() ([]*domain.User, error) {
	return m.filter(func(*domain.User) bool { return true }), nil
}

// GetByRole returns users with role
func (m *MockUserRepository) GetByRole(role domain.UserRole) ([]*domain.User, error) {
	return m.filter(func(u *domain.User) bool { return u.Role == role }), nil
}

// GetByVerificationStatus returns users in a verification state
func (m *MockUserRepository) GetByVerificationStatus(status domain.VerificationStatus) ([]*domain.User, error) {
	return m.filter(func(u *domain.User) bool { return u.VerificationStatus == status }), nil
}

func (m *MockUserRepository) filter(keep func(*domain.User) bool) []*domain.User {
	result := make([]*domain.User, 0)
	for _, id := range m.order {
		if u := m.ByID[id]; keep(u) {
			result = append(result, u)
		}
	}
	return result
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if _, exists := m.ByID[user.ID]; !exists {
		m.order = append(m.order, user.ID)
	}
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCommitteeRepository is a mock implementation of domain.CommitteeRepository
type MockCommitteeRepository struct {
	Committees  map[uuid.UUID]*domain.Committee
	order       []uuid.UUID
	AddMemberFn func(committeeID, userID uuid.UUID) error
	DeleteFn    func(id uuid.UUID) error
}

// NewMockCommitteeRepository creates a new MockCommitteeRepository
func NewMockCommitteeRepository() *MockCommitteeRepository {
	return &MockCommitteeRepository{
		Committees: make(map[uuid.UUID]*domain.Committee),
	}
}

// Create stores a committee
func (m *MockCommitteeRepository) Create(committee *domain.Committee) (*domain.Committee, error) {
	committee.ID = uuid.New()
	committee.CreatedAt = time.Now()
	committee.UpdatedAt = committee.CreatedAt
	if committee.Members == nil {
		committee.Members = []uuid.UUID{}
	}
	m.AddCommittee(committee)
	return committee, nil
}

// GetByID retrieves a committee by ID
func (m *MockCommitteeRepository) GetByID(id uuid.UUID) (*domain.Committee, error) {
	if c, ok := m.Committees[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCommitteeNotFound
}

// GetByIDForUpdateTx retrieves a committee by ID
func (m *MockCommitteeRepository) GetByIDForUpdateTx(tx any, id uuid.UUID) (*domain.Committee, error) {
	return m.GetByID(id)
}

// GetAll returns committees in insertion order
func (m *MockCommitteeRepository) GetAll() ([]*domain.Committee, error) {
	return m.filter(func(*domain.Committee) bool { return true }), nil
}

// GetAvailable returns active committees with open seats
func (m *MockCommitteeRepository) GetAvailable() ([]*domain.Committee, error) {
	return m.filter(func(c *domain.Committee) bool {
		return c.Status == domain.CommitteeStatusActive && !c.IsFull()
	}), nil
}

// GetByMember returns committees userID belongs to
func (m *MockCommitteeRepository) GetByMember(userID uuid.UUID) ([]*domain.Committee, error) {
	return m.filter(func(c *domain.Committee) bool { return c.HasMember(userID) }), nil
}

// UpdateTx replaces a stored committee
func (m *MockCommitteeRepository) UpdateTx(tx any, committee *domain.Committee) error {
	if _, ok := m.Committees[committee.ID]; !ok {
		return domain.ErrCommitteeNotFound
	}
	committee.UpdatedAt = time.Now()
	m.Committees[committee.ID] = committee
	return nil
}

// Delete removes a committee
func (m *MockCommitteeRepository) Delete(id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Committees[id]; !ok {
		return domain.ErrCommitteeNotFound
	}
	delete(m.Committees, id)
	return nil
}

// GetMembers lists members without user details
func (m *MockCommitteeRepository) GetMembers(committeeID uuid.UUID) ([]*domain.CommitteeMember, error) {
	c, err := m.GetByID(committeeID)
	if err != nil {
		return nil, err
	}
	members := make([]*domain.CommitteeMember, 0, len(c.Members))
	for _, id := range c.Members {
		members = append(members, &domain.CommitteeMember{UserID: id})
	}
	return members, nil
}

// AddMemberTx appends userID to the member list
func (m *MockCommitteeRepository) AddMemberTx(tx any, committeeID, userID uuid.UUID) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(committeeID, userID)
	}
	c, err := m.GetByID(committeeID)
	if err != nil {
		return err
	}
	if c.HasMember(userID) {
		return domain.ErrAlreadyMember
	}
	if c.IsFull() {
		return domain.ErrCommitteeFull
	}
	c.Members = append(c.Members, userID)
	return nil
}

func (m *MockCommitteeRepository) filter(keep func(*domain.Committee) bool) []*domain.Committee {
	result := make([]*domain.Committee, 0)
	for _, id := range m.order {
		if c, ok := m.Committees[id]; ok && keep(c) {
			result = append(result, c)
		}
	}
	return result
}

// AddCommittee adds a committee to the mock repository (helper for tests)
func (m *MockCommitteeRepository) AddCommittee(committee *domain.Committee) {
	if _, exists := m.Committees[committee.ID]; !exists {
		m.order = append(m.order, committee.ID)
	}
	m.Committees[committee.ID] = committee
}

// MockPayoutRepository is a mock implementation of domain.PayoutRepository
type MockPayoutRepository struct {
	Payouts       map[uuid.UUID]*domain.Payout
	order         []uuid.UUID
	ReserveCalls  int
	ReserveSlotFn func(payout *domain.Payout) (*domain.Payout, error)
}

// NewMockPayoutRepository creates a new MockPayoutRepository
func NewMockPayoutRepository() *MockPayoutRepository {
	return &MockPayoutRepository{
		Payouts: make(map[uuid.UUID]*domain.Payout),
	}
}

// GetByID retrieves a payout by ID
func (m *MockPayoutRepository) GetByID(id uuid.UUID) (*domain.Payout, error) {
	if p, ok := m.Payouts[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPayoutNotFound
}

// GetAll returns payouts in insertion order
func (m *MockPayoutRepository) GetAll() ([]*domain.Payout, error) {
	return m.filter(func(*domain.Payout) bool { return true }), nil
}

// GetByUser returns the payouts of a user
func (m *MockPayoutRepository) GetByUser(userID uuid.UUID) ([]*domain.Payout, error) {
	return m.filter(func(p *domain.Payout) bool { return p.UserID == userID }), nil
}

// GetByCommittee returns the payouts of a committee
func (m *MockPayoutRepository) GetByCommittee(committeeID uuid.UUID) ([]*domain.Payout, error) {
	return m.filter(func(p *domain.Payout) bool { return p.CommitteeID == committeeID }), nil
}

// GetByCommitteeTx returns the payouts of a committee
func (m *MockPayoutRepository) GetByCommitteeTx(tx any, committeeID uuid.UUID) ([]*domain.Payout, error) {
	return m.GetByCommittee(committeeID)
}

// ReserveSlotTx stores the payout unless its slot is already held
func (m *MockPayoutRepository) ReserveSlotTx(tx any, payout *domain.Payout) (*domain.Payout, error) {
	m.ReserveCalls++
	if m.ReserveSlotFn != nil {
		return m.ReserveSlotFn(payout)
	}
	for _, p := range m.Payouts {
		if p.CommitteeID == payout.CommitteeID && p.SlotNumber == payout.SlotNumber {
			return nil, domain.ErrSlotTaken
		}
	}
	payout.ID = uuid.New()
	payout.CreatedAt = time.Now()
	payout.UpdatedAt = payout.CreatedAt
	m.AddPayout(payout)
	return payout, nil
}

// Complete marks a pending payout completed
func (m *MockPayoutRepository) Complete(id uuid.UUID, completedAt time.Time) (*domain.Payout, error) {
	p, err := m.pending(id)
	if err != nil {
		return nil, err
	}
	p.Status = domain.PayoutStatusCompleted
	p.CompletedDate = &completedAt
	return p, nil
}

// SetReceipt attaches a receipt path
func (m *MockPayoutRepository) SetReceipt(id uuid.UUID, receiptURL string) (*domain.Payout, error) {
	p, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	p.ReceiptURL = &receiptURL
	return p, nil
}

// DeletePending removes a pending payout
func (m *MockPayoutRepository) DeletePending(id uuid.UUID) error {
	if _, err := m.pending(id); err != nil {
		return err
	}
	delete(m.Payouts, id)
	return nil
}

// CountByCommittee counts the payouts of a committee
func (m *MockPayoutRepository) CountByCommittee(committeeID uuid.UUID) (int64, error) {
	payouts, _ := m.GetByCommittee(committeeID)
	return int64(len(payouts)), nil
}

func (m *MockPayoutRepository) pending(id uuid.UUID) (*domain.Payout, error) {
	p, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PayoutStatusPending {
		return nil, domain.ErrPayoutNotPending
	}
	return p, nil
}

func (m *MockPayoutRepository) filter(keep func(*domain.Payout) bool) []*domain.Payout {
	result := make([]*domain.Payout, 0)
	for _, id := range m.order {
		if p, ok := m.Payouts[id]; ok && keep(p) {
			result = append(result, p)
		}
	}
	return result
}

// AddPayout adds a payout to the mock repository (helper for tests)
func (m *MockPayoutRepository) AddPayout(payout *domain.Payout) {
	if _, exists := m.Payouts[payout.ID]; !exists {
		m.order = append(m.order, payout.ID)
	}
	m.Payouts[payout.ID] = payout
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments map[uuid.UUID]*domain.Payment
	order    []uuid.UUID
	CreateFn func(payment *domain.Payment) (*domain.Payment, error)
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make(map[uuid.UUID]*domain.Payment),
	}
}

// Create stores a pending payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(payment)
	}
	payment.ID = uuid.New()
	payment.Status = domain.PaymentStatusPending
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	m.AddPayment(payment)
	return payment, nil
}

// GetByID retrieves a payment by ID
func (m *MockPaymentRepository) GetByID(id uuid.UUID) (*domain.Payment, error) {
	if p, ok := m.Payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

// GetAll returns payments in insertion order
func (m *MockPaymentRepository) GetAll() ([]*domain.Payment, error) {
	return m.filter(func(*domain.Payment) bool { return true }), nil
}

// GetByStatus returns payments in a status
func (m *MockPaymentRepository) GetByStatus(status domain.PaymentStatus) ([]*domain.Payment, error) {
	return m.filter(func(p *domain.Payment) bool { return p.Status == status }), nil
}

// GetByUser returns the payments of a user
func (m *MockPaymentRepository) GetByUser(userID uuid.UUID) ([]*domain.Payment, error) {
	return m.filter(func(p *domain.Payment) bool { return p.UserID == userID }), nil
}

// Review moves a pending payment to status
func (m *MockPaymentRepository) Review(id uuid.UUID, status domain.PaymentStatus, reviewerID uuid.UUID, remarks *string) (*domain.Payment, error) {
	p, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return nil, domain.ErrPaymentNotPending
	}
	now := time.Now()
	p.Status = status
	p.ReviewedBy = &reviewerID
	p.ReviewedAt = &now
	p.Remarks = remarks
	return p, nil
}

// Delete removes a payment
func (m *MockPaymentRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(m.Payments, id)
	return nil
}

func (m *MockPaymentRepository) filter(keep func(*domain.Payment) bool) []*domain.Payment {
	result := make([]*domain.Payment, 0)
	for _, id := range m.order {
		if p, ok := m.Payments[id]; ok && keep(p) {
			result = append(result, p)
		}
	}
	return result
}

// AddPayment adds a payment to the mock repository (helper for tests)
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	if _, exists := m.Payments[payment.ID]; !exists {
		m.order = append(m.order, payment.ID)
	}
	m.Payments[payment.ID] = payment
}

// MockJoinRequestRepository is a mock implementation of domain.JoinRequestRepository
type MockJoinRequestRepository struct {
	Requests map[uuid.UUID]*domain.JoinRequest
	order    []uuid.UUID
}

// NewMockJoinRequestRepository creates a new MockJoinRequestRepository
func NewMockJoinRequestRepository() *MockJoinRequestRepository {
	return &MockJoinRequestRepository{
		Requests: make(map[uuid.UUID]*domain.JoinRequest),
	}
}

// Create stores a pending request, refusing a second pending one
func (m *MockJoinRequestRepository) Create(req *domain.JoinRequest) (*domain.JoinRequest, error) {
	if pending, _ := m.HasPending(req.CommitteeID, req.UserID); pending {
		return nil, domain.ErrJoinRequestExists
	}
	req.ID = uuid.New()
	req.Status = domain.JoinRequestPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	m.AddRequest(req)
	return req, nil
}

// GetByID retrieves a request by ID
func (m *MockJoinRequestRepository) GetByID(id uuid.UUID) (*domain.JoinRequest, error) {
	if r, ok := m.Requests[id]; ok {
		return r, nil
	}
	return nil, domain.ErrJoinRequestNotFound
}

// GetAll returns requests in insertion order
func (m *MockJoinRequestRepository) GetAll() ([]*domain.JoinRequest, error) {
	return m.filter(func(*domain.JoinRequest) bool { return true }), nil
}

// GetByStatus returns requests in a status
func (m *MockJoinRequestRepository) GetByStatus(status domain.JoinRequestStatus) ([]*domain.JoinRequest, error) {
	return m.filter(func(r *domain.JoinRequest) bool { return r.Status == status }), nil
}

// GetByUser returns the requests of a user
func (m *MockJoinRequestRepository) GetByUser(userID uuid.UUID) ([]*domain.JoinRequest, error) {
	return m.filter(func(r *domain.JoinRequest) bool { return r.UserID == userID }), nil
}

// HasPending reports whether userID has a pending request for committeeID
func (m *MockJoinRequestRepository) HasPending(committeeID, userID uuid.UUID) (bool, error) {
	for _, r := range m.Requests {
		if r.CommitteeID == committeeID && r.UserID == userID && r.Status == domain.JoinRequestPending {
			return true, nil
		}
	}
	return false, nil
}

// Review moves a pending request out of pending
func (m *MockJoinRequestRepository) Review(id uuid.UUID, review domain.JoinRequestReview) (*domain.JoinRequest, error) {
	r, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.JoinRequestPending {
		return nil, domain.ErrJoinRequestNotPending
	}
	now := time.Now()
	r.Status = review.Status
	r.ReviewedBy = &review.ReviewerID
	r.ReviewedAt = &now
	r.Remarks = review.Remarks
	r.AssignedSlot = review.AssignedSlot
	return r, nil
}

// ReviewTx moves a pending request out of pending
func (m *MockJoinRequestRepository) ReviewTx(tx any, id uuid.UUID, review domain.JoinRequestReview) (*domain.JoinRequest, error) {
	return m.Review(id, review)
}

// Delete removes a request
func (m *MockJoinRequestRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Requests[id]; !ok {
		return domain.ErrJoinRequestNotFound
	}
	delete(m.Requests, id)
	return nil
}

func (m *MockJoinRequestRepository) filter(keep func(*domain.JoinRequest) bool) []*domain.JoinRequest {
	result := make([]*domain.JoinRequest, 0)
	for _, id := range m.order {
		if r, ok := m.Requests[id]; ok && keep(r) {
			result = append(result, r)
		}
	}
	return result
}

// AddRequest adds a request to the mock repository (helper for tests)
func (m *MockJoinRequestRepository) AddRequest(req *domain.JoinRequest) {
	if _, exists := m.Requests[req.ID]; !exists {
		m.order = append(m.order, req.ID)
	}
	m.Requests[req.ID] = req
}

// MockNotificationRepository is a mock implementation of domain.NotificationRepository.
// It is safe for concurrent use since admin notifications fan out in parallel.
type MockNotificationRepository struct {
	mu            sync.Mutex
	Notifications []*domain.Notification
	CreateFn      func(n *domain.Notification) (*domain.Notification, error)
}

// NewMockNotificationRepository creates a new MockNotificationRepository
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// Create stores a notification
func (m *MockNotificationRepository) Create(n *domain.Notification) (*domain.Notification, error) {
	if m.CreateFn != nil {
		return m.CreateFn(n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.Notifications = append(m.Notifications, n)
	return n, nil
}

// GetByUser returns a user's notifications, newest first
func (m *MockNotificationRepository) GetByUser(userID uuid.UUID, limit int32) ([]*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Notification, 0)
	for i := len(m.Notifications) - 1; i >= 0 && int32(len(result)) < limit; i-- {
		if m.Notifications[i].UserID == userID {
			result = append(result, m.Notifications[i])
		}
	}
	return result, nil
}

// MarkRead marks one of the user's notifications read
func (m *MockNotificationRepository) MarkRead(userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.Notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

// MarkAllRead marks every unread notification of the user read
func (m *MockNotificationRepository) MarkAllRead(userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.Notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

// CountUnread counts a user's unread notifications
func (m *MockNotificationRepository) CountUnread(userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.Notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// ForUser returns the stored notifications of userID in creation order (helper for tests)
func (m *MockNotificationRepository) ForUser(userID uuid.UUID) []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// MockTransactor runs fn directly with a nil transaction
type MockTransactor struct {
	Calls int
}

// WithTx implements domain.Transactor
func (m *MockTransactor) WithTx(ctx context.Context, fn func(tx any) error) error {
	m.Calls++
	return fn(nil)
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish implements websocket.EventPublisher
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the published event types in order (helper for tests)
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

// MockFileRepository keeps uploads in memory
type MockFileRepository struct {
	Files    map[string][]byte
	UploadFn func(objectPath string) error
}

// NewMockFileRepository creates a new MockFileRepository
func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{Files: make(map[string][]byte)}
}

// Upload stores data under objectPath
func (m *MockFileRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		if err := m.UploadFn(objectPath); err != nil {
			return "", err
		}
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Files[objectPath] = b
	return objectPath, nil
}

// Delete removes objectPath
func (m *MockFileRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Files, objectPath)
	return nil
}

// URL returns a fake download URL
func (m *MockFileRepository) URL(ctx context.Context, objectPath string) (string, error) {
	return fmt.Sprintf("https://files.test/%s", objectPath), nil
}
