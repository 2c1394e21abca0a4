package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
	"github.com/jhoicas/gst-billing-api/pkg/jwt"
)

const statusActive = "active"

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registers shop users and logs them in.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	cost     int
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithBcryptCost lowers the hashing cost (tests).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// RegisterUser hashes the password and stores a new user. Role defaults to
// cashier. Returns domain.ErrEmailAlreadyExists for a taken email.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCashier
	}
	if role != entity.RoleAdmin && role != entity.RoleCashier {
		return nil, fmt.Errorf("%w: role must be admin or cashier", domain.ErrInvalidInput)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       statusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// EnsureAdmin creates an admin account with the given credentials unless the
// email is already registered. Used once at startup.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	if email == "" || password == "" {
		return false, nil
	}
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: email, Password: password, Name: "Administrator", Role: entity.RoleAdmin})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Login checks the credentials and issues a JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != statusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
