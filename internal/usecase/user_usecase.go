package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/akaJirt/restaurant-api/internal/clients"
	"github.com/akaJirt/restaurant-api/internal/domain"
)

type userUseCase struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	notifier    clients.Notifier
	sessionTTL  time.Duration
	log         *logrus.Logger
}

func NewUserUseCase(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	notifier clients.Notifier,
	sessionTTL time.Duration,
	logger *logrus.Logger,
) domain.UserUseCase {
	return &userUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		sessionTTL:  sessionTTL,
		log:         logger,
	}
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func (uc *userUseCase) Register(ctx context.Context, fullName, email, phoneNumber, password string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	phoneNumber = strings.TrimSpace(phoneNumber)

	uc.log.Infof("Use Case: Attempting registration for email: %s", email)

	if fullName == "" {
		return nil, errors.New("full name cannot be empty")
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, errors.New("invalid email format")
	}
	if !phonePattern.MatchString(phoneNumber) {
		uc.log.Warnf("Use Case: Registration failed - invalid phone number: %s", phoneNumber)
		return nil, errors.New("invalid phone number format")
	}
	if err := validatePassword(password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	code := newVerificationCode()
	newUser := &domain.User{
		FullName:         fullName,
		Email:            email,
		PhoneNumber:      phoneNumber,
		PasswordHash:     string(hashedPassword),
		Role:             domain.RoleClient,
		VerificationCode: code,
	}

	createdUser, err := uc.userRepo.CreateUser(newUser)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	// A failed dispatch does not undo the registration; the code stays stored
	// and can be re-sent out of band.
	if err := uc.notifier.SendVerificationEmail(ctx, createdUser.Email, code); err != nil {
		uc.log.Errorf("Use Case: Failed to send verification email to %s, falling back to SMS: %v", createdUser.Email, err)
		if smsErr := uc.notifier.SendVerificationSMS(ctx, createdUser.PhoneNumber, code); smsErr != nil {
			uc.log.Errorf("Use Case: Failed to send verification SMS to %s: %v", createdUser.PhoneNumber, smsErr)
		}
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Email: %s", createdUser.ID, createdUser.Email)
	return createdUser, nil
}

func (uc *userUseCase) VerifyCode(email, code string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Verifying code for email: %s", email)

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return user, nil
	}
	if code == "" || user.VerificationCode != code {
		uc.log.Warnf("Use Case: Invalid verification code for %s", email)
		return nil, errors.New("invalid verification code")
	}

	user.IsVerified = true
	user.VerificationCode = ""
	updated, err := uc.userRepo.UpdateUser(user)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to mark user %s verified: %v", email, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Email verified successfully for %s", email)
	return updated, nil
}

func (uc *userUseCase) Login(email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Attempting authentication for email: %s", email)

	if !isValidEmail(email) || password == "" {
		return "", nil, fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
	}

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", email)
			return "", nil, fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", email, err)
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", email, user.ID)
			return "", nil, fmt.Errorf("incorrect email or password: %w", domain.ErrUnauthorized)
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", email, err)
		return "", nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	if !user.IsVerified {
		uc.log.Warnf("Use Case: Auth failed - unverified account: %s", email)
		return "", nil, fmt.Errorf("please verify your email first: %w", domain.ErrUnauthorized)
	}

	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(uc.sessionTTL),
	}
	if err := uc.sessionRepo.CreateSession(session); err != nil {
		uc.log.Errorf("Use Case: Failed to persist session for user %d: %v", user.ID, err)
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", email, user.ID)
	return session.Token, user, nil
}

func (uc *userUseCase) GetProfile(id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, errors.New("invalid user ID")
	}
	return uc.userRepo.GetUserByID(id)
}

func (uc *userUseCase) UpdateProfile(id int64, update domain.UserUpdate) (*domain.User, error) {
	if id <= 0 {
		return nil, errors.New("invalid user ID")
	}
	user, err := uc.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, errors.New("full name cannot be empty")
		}
		user.FullName = name
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if !isValidEmail(email) {
			return nil, errors.New("invalid email format")
		}
		user.Email = email
	}
	if update.Password != nil {
		if err := validatePassword(*update.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to hash new password for user %d: %v", id, err)
			return nil, fmt.Errorf("internal error processing password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}

	updated, err := uc.userRepo.UpdateUser(user)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update user %d: %v", id, err)
		return nil, err
	}

	// A password change invalidates every existing session; the caller has to
	// log in again with the new credentials.
	if update.Password != nil {
		if err := uc.sessionRepo.DeleteSessionsForUser(id); err != nil {
			uc.log.Errorf("Use Case: Failed to invalidate sessions for user %d after password change: %v", id, err)
		} else {
			uc.log.Infof("Use Case: Sessions invalidated for user %d after password change", id)
		}
	}

	uc.log.Infof("Use Case: Profile updated successfully for user ID: %d", id)
	return updated, nil
}

func (uc *userUseCase) DeleteUser(id int64) error {
	if id <= 0 {
		return errors.New("invalid user ID")
	}
	uc.log.Infof("Use Case: Deleting user ID: %d", id)
	return uc.userRepo.DeleteUser(id)
}

func (uc *userUseCase) ListUsers(limit, offset int) ([]domain.User, error) {
	return uc.userRepo.ListUsers(limit, offset)
}

func newVerificationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}

// isValidEmail provides a basic check for email format.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

// validatePassword enforces basic password complexity rules.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one digit")
	}
	return nil
}
