package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type fakeUserRepo struct {
	users  map[int64]domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]domain.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, fmt.Errorf("user with email %s already exists: %w", user.Email, domain.ErrDuplicate)
		}
	}
	stored := *user
	stored.ID = f.nextID
	f.nextID++
	f.users[stored.ID] = stored
	return &stored, nil
}

func (f *fakeUserRepo) GetUserByID(id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s %w", email, domain.ErrNotFound)
}

func (f *fakeUserRepo) UpdateUser(user *domain.User) (*domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return nil, fmt.Errorf("user with id %d %w", user.ID, domain.ErrNotFound)
	}
	f.users[user.ID] = *user
	stored := f.users[user.ID]
	return &stored, nil
}

func (f *fakeUserRepo) DeleteUser(id int64) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ListUsers(limit, offset int) ([]domain.User, error) {
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]domain.Session)}
}

func (f *fakeSessionRepo) CreateSession(session *domain.Session) error {
	f.sessions[session.Token] = *session
	return nil
}

func (f *fakeSessionRepo) GetSession(token string) (*domain.Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return nil, fmt.Errorf("session %w", domain.ErrNotFound)
	}
	return &session, nil
}

func (f *fakeSessionRepo) DeleteSessionsForUser(userID int64) error {
	for token, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

type recordingNotifier struct {
	emails   []string
	sms      []string
	lastCode string
	emailErr error
}

func (n *recordingNotifier) SendVerificationEmail(ctx context.Context, email, code string) error {
	if n.emailErr != nil {
		return n.emailErr
	}
	n.emails = append(n.emails, email)
	n.lastCode = code
	return nil
}

func (n *recordingNotifier) SendVerificationSMS(ctx context.Context, phoneNumber, code string) error {
	n.sms = append(n.sms, phoneNumber)
	n.lastCode = code
	return nil
}

func newTestUserUseCase() (domain.UserUseCase, *fakeUserRepo, *fakeSessionRepo, *recordingNotifier) {
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	notifier := &recordingNotifier{}
	uc := NewUserUseCase(userRepo, sessionRepo, notifier, time.Hour, testLogger())
	return uc, userRepo, sessionRepo, notifier
}

func TestRegisterSuccess(t *testing.T) {
	uc, userRepo, _, notifier := newTestUserUseCase()

	user, err := uc.Register(context.Background(), "John Doe", "John@Example.com", "+77011234567", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "john@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.Role != domain.RoleClient {
		t.Errorf("expected client role, got %s", user.Role)
	}
	if user.IsVerified {
		t.Error("new user must not be verified")
	}

	stored := userRepo.users[user.ID]
	if len(stored.VerificationCode) != 6 {
		t.Errorf("expected 6 digit verification code, got %q", stored.VerificationCode)
	}
	if stored.PasswordHash == "Password1" {
		t.Error("password stored in plain text")
	}
	if len(notifier.emails) != 1 {
		t.Errorf("expected one verification email, got %d", len(notifier.emails))
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		phone    string
		password string
		wantErr  string
	}{
		{name: "empty name", email: "a@b.com", phone: "+77011234567", password: "Password1", wantErr: "full name"},
		{name: "bad email", fullName: "John", email: "not-an-email", phone: "+77011234567", password: "Password1", wantErr: "email"},
		{name: "bad phone", fullName: "John", email: "a@b.com", phone: "abc", password: "Password1", wantErr: "phone"},
		{name: "short password", fullName: "John", email: "a@b.com", phone: "+77011234567", password: "Pw1", wantErr: "at least 8"},
		{name: "no uppercase", fullName: "John", email: "a@b.com", phone: "+77011234567", password: "password1", wantErr: "uppercase"},
		{name: "no digit", fullName: "John", email: "a@b.com", phone: "+77011234567", password: "Passwordx", wantErr: "digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, userRepo, _, _ := newTestUserUseCase()

			_, err := uc.Register(context.Background(), tt.fullName, tt.email, tt.phone, tt.password)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
			if len(userRepo.users) != 0 {
				t.Errorf("user persisted despite failed validation")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _, _ := newTestUserUseCase()

	if _, err := uc.Register(context.Background(), "John", "a@b.com", "+77011234567", "Password1"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := uc.Register(context.Background(), "Jane", "a@b.com", "+77017654321", "Password2")
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRegisterSurvivesNotifierFailure(t *testing.T) {
	uc, userRepo, _, notifier := newTestUserUseCase()
	notifier.emailErr = errors.New("smtp down")

	user, err := uc.Register(context.Background(), "John", "a@b.com", "+77011234567", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(notifier.sms) != 1 {
		t.Errorf("expected SMS fallback, got %d sends", len(notifier.sms))
	}
	if userRepo.users[user.ID].VerificationCode == "" {
		t.Error("verification code lost after dispatch failure")
	}
}

func TestVerifyCode(t *testing.T) {
	uc, userRepo, _, _ := newTestUserUseCase()

	registered, err := uc.Register(context.Background(), "John", "a@b.com", "+77011234567", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	code := userRepo.users[registered.ID].VerificationCode

	if _, err := uc.VerifyCode("a@b.com", "000000"); err == nil && code != "000000" {
		t.Error("expected error for wrong code")
	}

	verified, err := uc.VerifyCode("a@b.com", code)
	if err != nil {
		t.Fatalf("VerifyCode returned error: %v", err)
	}
	if !verified.IsVerified {
		t.Error("user not marked verified")
	}
	if userRepo.users[registered.ID].VerificationCode != "" {
		t.Error("verification code not cleared")
	}

	// Verifying again is a no-op success.
	if _, err := uc.VerifyCode("a@b.com", "whatever"); err != nil {
		t.Errorf("repeat verification returned error: %v", err)
	}
}

func TestLogin(t *testing.T) {
	uc, userRepo, sessionRepo, _ := newTestUserUseCase()

	registered, err := uc.Register(context.Background(), "John", "a@b.com", "+77011234567", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Unverified accounts cannot log in.
	if _, _, err := uc.Login("a@b.com", "Password1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unverified account, got %v", err)
	}

	code := userRepo.users[registered.ID].VerificationCode
	if _, err := uc.VerifyCode("a@b.com", code); err != nil {
		t.Fatalf("VerifyCode returned error: %v", err)
	}

	token, user, err := uc.Login("a@b.com", "Password1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %d, got %d", registered.ID, user.ID)
	}

	session, err := sessionRepo.GetSession(token)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if session.UserID != registered.ID {
		t.Errorf("session bound to wrong user: %d", session.UserID)
	}
	if session.Expired(time.Now()) {
		t.Error("fresh session already expired")
	}

	if _, _, err := uc.Login("a@b.com", "WrongPass1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, _, err := uc.Login("nobody@b.com", "Password1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	uc, userRepo, _, _ := newTestUserUseCase()

	registered, err := uc.Register(context.Background(), "John", "a@b.com", "+77011234567", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	oldHash := userRepo.users[registered.ID].PasswordHash

	name := "John Smith"
	password := "NewPassword2"
	updated, err := uc.UpdateProfile(registered.ID, domain.UserUpdate{FullName: &name, Password: &password})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FullName != "John Smith" {
		t.Errorf("expected updated name, got %s", updated.FullName)
	}
	if userRepo.users[registered.ID].PasswordHash == oldHash {
		t.Error("password hash unchanged after password update")
	}

	empty := " "
	if _, err := uc.UpdateProfile(registered.ID, domain.UserUpdate{FullName: &empty}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestPasswordChangeInvalidatesSessions(t *testing.T) {
	uc, userRepo, sessionRepo, _ := newTestUserUseCase()

	registered, err := uc.Register(context.Background(), "John", "a@b.com", "+77011234567", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	code := userRepo.users[registered.ID].VerificationCode
	if _, err := uc.VerifyCode("a@b.com", code); err != nil {
		t.Fatalf("VerifyCode returned error: %v", err)
	}
	token, _, err := uc.Login("a@b.com", "Password1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// A name-only update must not touch existing sessions.
	name := "John Smith"
	if _, err := uc.UpdateProfile(registered.ID, domain.UserUpdate{FullName: &name}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if _, err := sessionRepo.GetSession(token); err != nil {
		t.Fatalf("session dropped by a non-password update: %v", err)
	}

	password := "NewPassword2"
	if _, err := uc.UpdateProfile(registered.ID, domain.UserUpdate{Password: &password}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if _, err := sessionRepo.GetSession(token); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected session invalidated after password change, got %v", err)
	}

	if _, _, err := uc.Login("a@b.com", "NewPassword2"); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}
