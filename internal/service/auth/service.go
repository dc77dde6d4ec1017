package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/pkg/auth"
	"github.com/sepsisai/clinical-api/pkg/security"
)

const bcryptCost = 12

type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.TokenResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Logout(ctx context.Context) error
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type Service struct {
	users  repository.UserRepository
	jwtSvc auth.JWTService
	hasher security.PasswordHasher
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		users:  users,
		jwtSvc: jwtSvc,
		hasher: security.NewBcryptHasher(bcryptCost),
	}
}

func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           model.NormalizeEmail(req.Email),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return nil, model.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.startSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByID(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context) error {
	return s.users.ClearCurrent(ctx)
}

func (s *Service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	return s.jwtSvc.ValidateToken(token)
}

func (s *Service) startSession(ctx context.Context, user *model.User) (*model.TokenResponse, error) {
	// The current-user key is written for parity with the storage
	// contract; the session itself rides on the JWT.
	if err := s.users.SetCurrent(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		User:        user,
	}, nil
}
