package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adi-Narayan/Hashira/auth"
	"github.com/Adi-Narayan/Hashira/models"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminCredentials struct {
	Email    string
	Password string
}

type AccountService struct {
	users    store.UserRepository
	issuer   *auth.Issuer
	notifier Notifier
	admin    AdminCredentials
	validate *validator.Validate
	now      func() time.Time
}

func NewAccountService(users store.UserRepository, issuer *auth.Issuer, notifier Notifier, admin AdminCredentials) *AccountService {
	return &AccountService{
		users:    users,
		issuer:   issuer,
		notifier: notifier,
		admin:    admin,
		validate: validator.New(),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates the account and returns a user token.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return "", ErrMissingName
	}
	if err := s.checkEmail(email); err != nil {
		return "", err
	}
	if err := checkPassword(password); err != nil {
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hash,
		CartData:  models.CartData{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	zap.L().Info("user registered", zap.String("namespace", "account"), zap.String("user_id", user.ID))
	s.notifier.Welcome(ctx, user)
	return s.issuer.IssueUser(user.ID)
}

// Login returns a user token. Unknown emails and wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}
	return s.issuer.IssueUser(user.ID)
}

func (s *AccountService) AdminLogin(email, password string) (string, error) {
	if !auth.CheckAdmin(s.admin.Email, s.admin.Password, email, password) {
		zap.L().Warn("admin login failed", zap.String("namespace", "account"))
		return "", ErrInvalidCredentials
	}
	return s.issuer.IssueAdmin(email)
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ProfileUpdate carries optional changes; empty fields keep the current value.
type ProfileUpdate struct {
	Name  string
	Email string
	Phone string
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		if err := s.checkEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = phone
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset emails a short-lived reset token. It reports success
// for unknown emails so the endpoint cannot be used to probe accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			zap.L().Info("password reset for unknown email", zap.String("namespace", "account"))
			return nil
		}
		return err
	}
	token, err := s.issuer.IssueReset(user.Email, user.Password)
	if err != nil {
		return err
	}
	s.notifier.PasswordReset(ctx, user.Email, token)
	return nil
}

// ResetPassword sets a new password using a token from RequestPasswordReset.
// A token stops working once the password it was issued against changes.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	claims, err := s.issuer.ParseReset(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !claims.MatchesPassword(user.Password) {
		return ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	zap.L().Info("password reset", zap.String("namespace", "account"), zap.String("user_id", user.ID))
	return nil
}
