package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"product_tracker/internal/auth"
	"product_tracker/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrNotAdmin           = errors.New("invalid admin credentials")
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}

type AuthResult struct {
	Token     string       `json:"access_token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"user"`
}

type UserUseCase interface {
	Register(ctx context.Context, input *RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	// VerifyAdminCredentials re-authenticates a privileged user without
	// issuing a token. It backs the elevated discount authorization step.
	VerifyAdminCredentials(ctx context.Context, username, password string) error
}

type userUseCase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	log      *logrus.Logger
}

func NewUserUseCase(userRepo domain.UserRepository, tokens *auth.TokenManager, logger *logrus.Logger) UserUseCase {
	return &userUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		log:      logger,
	}
}

func (uc *userUseCase) Register(ctx context.Context, input *RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		uc.log.Warn("Use Case: Attempted to register user with empty username")
		return nil, errors.New("username cannot be empty")
	}
	if len(input.Password) < 8 {
		uc.log.Warnf("Use Case: Attempted to register user '%s' with a too-short password", input.Username)
		return nil, errors.New("password must be at least 8 characters")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		uc.log.Warnf("Use Case: Attempted to register user '%s' with invalid email", input.Username)
		return nil, errors.New("email is invalid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for user '%s': %v", input.Username, err)
		return nil, errors.New("could not process password")
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		IsActive:     true,
		IsAdmin:      input.IsAdmin,
	}

	uc.log.Infof("Use Case: Attempting to register user '%s'", user.Username)
	created, err := uc.userRepo.CreateUser(ctx, user)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user '%s': %v", user.Username, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User '%s' registered successfully with ID %d", created.Username, created.ID)
	return created, nil
}

func (uc *userUseCase) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		uc.log.Warnf("Use Case: Authentication failed, user '%s' not found", username)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		uc.log.Warnf("Use Case: Authentication rejected for inactive user '%s'", username)
		return nil, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.log.Warnf("Use Case: Authentication failed for user '%s': wrong password", username)
		return nil, ErrInvalidCredentials
	}

	token, err := uc.tokens.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to generate token for user '%s': %v", username, err)
		return nil, errors.New("could not issue access token")
	}

	uc.log.Infof("Use Case: User '%s' authenticated successfully", username)
	return &AuthResult{
		Token:     token,
		ExpiresIn: uc.tokens.TokenDurationSeconds(),
		User:      user,
	}, nil
}

func (uc *userUseCase) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	if id <= 0 {
		return nil, errors.New("invalid user ID")
	}
	user, err := uc.userRepo.GetUserByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get user ID %d: %v", id, err)
		return nil, err
	}
	return user, nil
}

func (uc *userUseCase) VerifyAdminCredentials(ctx context.Context, username, password string) error {
	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		uc.log.Warnf("Use Case: Elevated authorization failed, user '%s' not found", username)
		return ErrNotAdmin
	}
	if !user.IsActive || !user.IsAdmin {
		uc.log.Warnf("Use Case: Elevated authorization rejected for non-admin user '%s'", username)
		return ErrNotAdmin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.log.Warnf("Use Case: Elevated authorization failed for user '%s': wrong password", username)
		return ErrNotAdmin
	}
	uc.log.Infof("Use Case: Elevated authorization granted by admin '%s'", username)
	return nil
}
