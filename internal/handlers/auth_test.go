package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/fmoreau/taskdeck/internal/auth"
	"github.com/fmoreau/taskdeck/internal/middleware"
	"github.com/fmoreau/taskdeck/internal/repo"
)

func TestAuthHandler_Register(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Alice", "a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &AuthHandler{Users: repo.NewUserRepo(db), Secret: []byte("test-secret"), TokenTTL: time.Hour}

	body, _ := json.Marshal(map[string]string{"name": "Alice", "email": "a@x.com", "password": "secret1"})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201, body: %s", rr.Code, rr.Body.String())
	}

	var out struct {
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "User registered successfully" || out.User.Email != "a@x.com" {
		t.Errorf("unexpected response: %+v", out)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("password")) {
		t.Error("response leaks password field")
	}

	cookie := sessionCookie(t, rr.Result())
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie attributes: %+v", cookie)
	}
	if _, err := auth.VerifyToken(cookie.Value, []byte("test-secret")); err != nil {
		t.Errorf("cookie token does not verify: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &AuthHandler{Users: repo.NewUserRepo(db), Secret: []byte("test-secret"), TokenTTL: time.Hour}

	cases := []struct {
		name    string
		payload map[string]string
		wantMsg string
	}{
		{"short name", map[string]string{"name": "Al", "email": "a@x.com", "password": "secret1"}, "Name must be at least 3 characters"},
		{"bad email", map[string]string{"name": "Alice", "email": "not-an-email", "password": "secret1"}, "Invalid email address"},
		{"short password", map[string]string{"name": "Alice", "email": "a@x.com", "password": "12345"}, "Password must be at least 6 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.payload)
			req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			h.Register(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			var out map[string]string
			json.NewDecoder(rr.Body).Decode(&out)
			if out["error"] != tc.wantMsg {
				t.Errorf("error: got %q, want %q", out["error"], tc.wantMsg)
			}
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	existing := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(existing.String(), "Alice", "a@x.com", "hash", now, now))

	h := &AuthHandler{Users: repo.NewUserRepo(db), Secret: []byte("test-secret"), TokenTTL: time.Hour}

	// Different name/password must not matter.
	body, _ := json.Marshal(map[string]string{"name": "Other", "email": "a@x.com", "password": "different"})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "User with this email already exists" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_FailuresIndistinguishable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now().UTC()

	// Unknown email.
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))
	// Known email, wrong password.
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), "Alice", "a@x.com", hash, now, now))

	h := &AuthHandler{Users: repo.NewUserRepo(db), Secret: []byte("test-secret"), TokenTTL: time.Hour}

	do := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		h.Login(rr, req)
		return rr
	}

	unknown := do("nobody@x.com", "whatever1")
	wrongPass := do("a@x.com", "wrong-password")

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: unknown=%d wrongPass=%d, want 401 for both", unknown.Code, wrongPass.Code)
	}
	if !bytes.Equal(unknown.Body.Bytes(), wrongPass.Body.Bytes()) {
		t.Errorf("bodies differ: %q vs %q", unknown.Body.String(), wrongPass.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userID := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(userID.String(), "Alice", "a@x.com", hash, now, now))

	h := &AuthHandler{Users: repo.NewUserRepo(db), Secret: []byte("test-secret"), TokenTTL: time.Hour}

	body, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "secret1"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	cookie := sessionCookie(t, rr.Result())
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	got, err := auth.VerifyToken(cookie.Value, []byte("test-secret"))
	if err != nil || got != userID {
		t.Errorf("token user: got %s err %v, want %s", got, err, userID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := &AuthHandler{}

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	cookie := sessionCookie(t, rr.Result())
	if cookie == nil {
		t.Fatal("expected cleared cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: %+v", cookie)
	}
}

func TestAuthHandler_Me_UserGone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id, name, email, password_hash`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))

	h := &AuthHandler{Users: repo.NewUserRepo(db), Secret: []byte("test-secret"), TokenTTL: time.Hour}

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "User not found" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// sessionCookie returns the session cookie from a response, or nil.
func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}
