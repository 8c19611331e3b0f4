package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachFinance/internal/models"
	"github.com/saeid-a/CoachFinance/pkg/utils"
	"go.uber.org/zap"
)

const testJWTSecret = "handler-secret"

type stubAuthUserStore struct {
	byEmail map[string]*models.User
	created *models.User
}

func (s *stubAuthUserStore) CreateUser(_ context.Context, user *models.User) error {
	user.ID = 55
	s.created = user
	return nil
}

func (s *stubAuthUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubAuthUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newAuthTestApp(store *stubAuthUserStore) *fiber.App {
	handler := NewAuthHandler(store, testJWTSecret, zap.NewNop())

	app := fiber.New()
	app.Post("/register", handler.Register)
	app.Post("/login", handler.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestRegisterCreatesClientAndReturnsToken(t *testing.T) {
	store := &stubAuthUserStore{byEmail: map[string]*models.User{}}
	app := newAuthTestApp(store)

	resp := postJSON(t, app, "/register", `{"email":" New@Example.com ","password":"longenough","full_name":"  Sam Client "}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if store.created == nil || store.created.Email != "new@example.com" || store.created.Role != models.RoleUser {
		t.Fatalf("unexpected created user: %+v", store.created)
	}
	if store.created.FullName == nil || *store.created.FullName != "Sam Client" {
		t.Fatalf("expected trimmed full name, got %+v", store.created.FullName)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	claims, err := utils.ValidateToken(payload.Token, testJWTSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "55" || claims.Role != models.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	store := &stubAuthUserStore{byEmail: map[string]*models.User{
		"taken@example.com": {ID: 1, Email: "taken@example.com"},
	}}
	app := newAuthTestApp(store)

	cases := []struct {
		body string
		want int
	}{
		{`{"email":"nope","password":"longenough"}`, http.StatusBadRequest},
		{`{"email":"a@example.com","password":"short"}`, http.StatusBadRequest},
		{`{"email":"a@example.com","password":"longenough","role":"admin"}`, http.StatusBadRequest},
		{`{"email":"taken@example.com","password":"longenough"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		resp := postJSON(t, app, "/register", tc.body)
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, resp.StatusCode)
		}
	}
	if store.created != nil {
		t.Fatalf("expected no user to be created")
	}
}

func TestLoginChecksPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &stubAuthUserStore{byEmail: map[string]*models.User{
		"coach@example.com": {ID: 7, Email: "coach@example.com", Role: models.RoleCoach, PasswordHash: hash},
	}}
	app := newAuthTestApp(store)

	resp := postJSON(t, app, "/login", `{"email":"coach@example.com","password":"correct-horse"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/login", `{"email":"coach@example.com","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/login", `{"email":"ghost@example.com","password":"whatever1"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.StatusCode)
	}
}
