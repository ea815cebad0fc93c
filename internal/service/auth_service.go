package service

import (
	"errors"
	"strings"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo    domain.UserRepository
	adminEmails map[string]bool
}

// NewAuthService creates a new AuthService. Users first seen with an email in
// adminEmails are created with the admin role.
func NewAuthService(userRepo domain.UserRepository, adminEmails []string) *AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return &AuthService{
		userRepo:    userRepo,
		adminEmails: admins,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	IsNewUser bool
}

// AuthenticateUser handles the login callback, creating the user on first sight
func (s *AuthService) AuthenticateUser(auth0ID, email string, name, pictureURL *string) (*AuthResult, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err == nil {
		log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
		return &AuthResult{User: user}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to get user")
		return nil, err
	}

	role := domain.RoleUser
	if s.adminEmails[strings.ToLower(email)] {
		role = domain.RoleAdmin
	}

	user, err = s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL, role)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to create or get user")
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("Created new user")
	return &AuthResult{User: user, IsNewUser: true}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by their Auth0 ID
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetUserIDByAuth0ID resolves the local user ID of an Auth0 subject
func (s *AuthService) GetUserIDByAuth0ID(auth0ID string) (uuid.UUID, error) {
	user, err := s.userRepo.GetByAuth0ID(auth0ID)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}
