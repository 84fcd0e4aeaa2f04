package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/utils"
	"github.com/example/storefront/internal/verification"
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User, phone *models.PhoneNumber) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhoneNumber(ctx context.Context, number string) (*models.User, error)
	FindByConfirmationKey(ctx context.Context, key string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	SaveProfile(ctx context.Context, profile *models.Profile) error
}

// PhoneNumberStore looks up verification records.
type PhoneNumberStore interface {
	FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

// PhoneVerifier issues and checks SMS codes.
type PhoneVerifier interface {
	Send(ctx context.Context, rec *models.PhoneNumber) (verification.SendResult, error)
	Check(ctx context.Context, rec *models.PhoneNumber, code string) error
}

// AuthService handles registration, login and contact verification.
type AuthService struct {
	users     UserStore
	phones    PhoneNumberStore
	verifier  PhoneVerifier
	mailer    Mailer
	log       *zap.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users UserStore, phones PhoneNumberStore, verifier PhoneVerifier, mailer Mailer, log *zap.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		phones:    phones,
		verifier:  verifier,
		mailer:    mailer,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password1   string
	Password2   string
}

// Register creates an account identified by email, phone number or both.
// A phone number gets an unverified record with no code sent yet; an email
// gets a confirmation message.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)

	if email == "" && phone == "" {
		return nil, NewValidationError(NonFieldErrors, "Enter an email or a phone number.")
	}
	if in.Password1 != in.Password2 {
		return nil, NewValidationError(NonFieldErrors, "The two password fields didn't match.")
	}

	if phone != "" {
		exists, err := s.phones.NumberExists(ctx, phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errPhoneTaken()
		}
	}
	if email != "" {
		exists, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errEmailTaken()
		}
	}

	hash, err := utils.HashPassword(in.Password1)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if email != "" {
		user.Email = &email
		user.EmailConfirmationKey = uuid.NewString()
	}

	var record *models.PhoneNumber
	if phone != "" {
		record = &models.PhoneNumber{Number: phone, Status: models.VerificationUnsent}
	}

	if err := s.users.Create(ctx, user, record); err != nil {
		return nil, duplicateRegistration(err)
	}

	if email != "" && s.mailer != nil {
		s.mailer.SendEmail(
			"Confirm your email address",
			fmt.Sprintf("Hello %s,\n\nUse this key to confirm your email address: %s\n", user.FullName(), user.EmailConfirmationKey),
			email,
		)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()),
		zap.Bool("email", email != ""), zap.Bool("phone", phone != ""))
	return user, nil
}

type LoginInput struct {
	Email       string
	PhoneNumber string
	Password    string
}

// Login authenticates by email or phone number and returns a signed token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	var (
		user *models.User
		err  error
	)

	switch {
	case in.Email != "" && in.Password != "":
		user, err = s.users.FindByEmail(ctx, in.Email)
	case in.PhoneNumber != "" && in.Password != "":
		user, err = s.users.FindByPhoneNumber(ctx, in.PhoneNumber)
	default:
		return "", nil, NewValidationError(NonFieldErrors, "Enter an email or a phone number.")
	}

	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, in.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrAccountDisabled
	}

	if in.Email != "" {
		if !user.EmailVerified {
			return "", nil, ErrEmailNotVerified
		}
	} else if user.Phone == nil || !user.Phone.IsVerified {
		return "", nil, ErrPhoneNotVerified
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// SendPhoneCode texts a fresh code to a registered, unverified number. The
// outcome is logged; callers show the same message regardless.
func (s *AuthService) SendPhoneCode(ctx context.Context, number string) (verification.SendResult, error) {
	rec, err := s.registeredNumber(ctx, number)
	if err != nil {
		return verification.NotConfigured, err
	}
	if rec.IsVerified {
		return verification.NotConfigured, NewValidationError("phone_number", "Phone number is already verified.")
	}

	result, err := s.verifier.Send(ctx, rec)
	if errors.Is(err, verification.ErrAlreadyVerified) {
		return result, NewValidationError("phone_number", "Phone number is already verified.")
	}
	if err != nil {
		return result, err
	}

	s.log.Info("verification code requested",
		zap.String("phone_number", rec.Number), zap.String("result", result.String()))
	return result, nil
}

// VerifyPhone checks a submitted code.
func (s *AuthService) VerifyPhone(ctx context.Context, number, code string) error {
	rec, err := s.registeredNumber(ctx, number)
	if err != nil {
		return err
	}
	return s.verifier.Check(ctx, rec, code)
}

// ConfirmEmail marks the email of the account holding key as verified.
func (s *AuthService) ConfirmEmail(ctx context.Context, key string) error {
	if key == "" {
		return repository.ErrNotFound
	}

	user, err := s.users.FindByConfirmationKey(ctx, key)
	if err != nil {
		return err
	}

	user.EmailVerified = true
	user.EmailConfirmationKey = ""
	return s.users.Update(ctx, user)
}

func (s *AuthService) registeredNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	rec, err := s.phones.FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotRegistered
	}
	return rec, err
}

func errPhoneTaken() error {
	return NewValidationError("phone_number", "A user is already registered with this phone number.")
}

func errEmailTaken() error {
	return NewValidationError("email", "A user is already registered with this e-mail address.")
}

// duplicateRegistration maps a unique violation lost to a concurrent signup
// onto the same field errors the existence checks return.
func duplicateRegistration(err error) error {
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		switch {
		case strings.HasSuffix(dup.Constraint, "_phone_number"):
			return errPhoneTaken()
		case strings.HasSuffix(dup.Constraint, "_email"):
			return errEmailTaken()
		}
	}
	return fmt.Errorf("create user: %w", err)
}
