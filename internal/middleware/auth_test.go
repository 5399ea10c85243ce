package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

type stubSessionRepo struct {
	sessions map[string]domain.Session
}

func (s *stubSessionRepo) CreateSession(session *domain.Session) error {
	s.sessions[session.Token] = *session
	return nil
}

func (s *stubSessionRepo) GetSession(token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, fmt.Errorf("session %w", domain.ErrNotFound)
	}
	return &session, nil
}

func (s *stubSessionRepo) DeleteSessionsForUser(userID int64) error {
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

type stubUserRepo struct {
	users map[int64]domain.User
}

func (s *stubUserRepo) GetUserByID(id int64) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

func (s *stubUserRepo) CreateUser(user *domain.User) (*domain.User, error) { return user, nil }
func (s *stubUserRepo) GetUserByEmail(email string) (*domain.User, error)  { return nil, domain.ErrNotFound }
func (s *stubUserRepo) UpdateUser(user *domain.User) (*domain.User, error) { return user, nil }
func (s *stubUserRepo) DeleteUser(id int64) error                          { return nil }
func (s *stubUserRepo) ListUsers(limit, offset int) ([]domain.User, error) { return nil, nil }

func newAuthTestRouter(sessions *stubSessionRepo, users *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(sessions, users, log), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	validToken := uuid.NewString()
	expiredToken := uuid.NewString()
	sessions := &stubSessionRepo{sessions: map[string]domain.Session{
		validToken: {
			Token:     validToken,
			UserID:    1,
			ExpiresAt: time.Now().Add(time.Hour),
		},
		expiredToken: {
			Token:     expiredToken,
			UserID:    1,
			ExpiresAt: time.Now().Add(-time.Hour),
		},
	}}
	users := &stubUserRepo{users: map[int64]domain.User{
		1: {ID: 1, Email: "a@b.com", Role: domain.RoleClient, IsVerified: true},
	}}
	router := newAuthTestRouter(sessions, users)

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
	}{
		{name: "missing header", authHeader: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic " + validToken, wantCode: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer abc", wantCode: http.StatusUnauthorized},
		{name: "unknown token", authHeader: "Bearer " + uuid.NewString(), wantCode: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expiredToken, wantCode: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer " + validToken, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRejectsOrphanedSession(t *testing.T) {
	token := uuid.NewString()
	sessions := &stubSessionRepo{sessions: map[string]domain.Session{
		token: {Token: token, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)},
	}}
	users := &stubUserRepo{users: map[int64]domain.User{}}
	router := newAuthTestRouter(sessions, users)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for session without user, got %d", rec.Code)
	}
}
