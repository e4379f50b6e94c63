package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/placeshare/internal/domain/user"
	"github.com/geocoder89/placeshare/internal/http/handlers"
	"github.com/geocoder89/placeshare/internal/security"
)

type fakeUsersStore struct {
	createFn     func(ctx context.Context, u user.User) error
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	listFn       func(ctx context.Context) ([]user.User, error)

	created *user.User
}

func (f *fakeUsersStore) Create(ctx context.Context, u user.User) error {
	f.created = &u
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUsersStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersStore) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) GenerateAccessToken(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func TestGetUsers(t *testing.T) {
	store := &fakeUsersStore{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{
				{ID: "u1", Name: "Max", Email: "max@example.com", Places: []string{"p1"}},
			}, nil
		},
	}

	h := handlers.NewUsersHandler(store, &fakeTokenIssuer{}, t.TempDir())

	r := setupRouter(http.MethodGet, "/api/users", "", h.GetUsers)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password leaked into users payload: %s", w.Body.String())
	}
}

func TestSignup(t *testing.T) {
	validFields := map[string]string{
		"name":     "Max",
		"email":    "max@example.com",
		"password": "secret123",
	}

	tests := []struct {
		name           string
		fields         map[string]string
		createFn       func(ctx context.Context, u user.User) error
		wantStatusCode int
	}{
		{
			name:           "success",
			fields:         validFields,
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "missing_fields",
			fields: map[string]string{
				"name": "Max",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "duplicate_email",
			fields: validFields,
			createFn: func(ctx context.Context, u user.User) error {
				return user.ErrEmailTaken
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "store_error",
			fields: validFields,
			createFn: func(ctx context.Context, u user.User) error {
				return errors.New("db down")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsersStore{createFn: tt.createFn}

			h := handlers.NewUsersHandler(store, &fakeTokenIssuer{}, t.TempDir())

			r := setupRouter(http.MethodPost, "/api/users/signup", "", h.Signup)

			body, contentType := multipartBody(t, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/users/signup", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				if store.created == nil {
					t.Fatal("no user reached the store")
				}
				if store.created.PasswordHash == "secret123" || store.created.PasswordHash == "" {
					t.Fatal("password was not hashed before storage")
				}
				if len(store.created.Places) != 0 {
					t.Fatalf("new user starts with places %v, want none", store.created.Places)
				}

				var resp struct {
					Token string    `json:"token"`
					User  user.User `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if resp.Token == "" {
					t.Fatal("signup response is missing the token")
				}
			}

			if tt.name == "missing_fields" && store.created != nil {
				t.Fatal("store was written despite failed validation")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	stored := user.User{ID: "u1", Name: "Max", Email: "max@example.com", PasswordHash: hash}

	tests := []struct {
		name           string
		body           string
		getByEmailFn   func(ctx context.Context, email string) (user.User, error)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email":"max@example.com","password":"secret123"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return stored, nil
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "wrong_password",
			body: `{"email":"max@example.com","password":"nope-nope"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return stored, nil
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "unknown_email",
			body: `{"email":"ghost@example.com","password":"secret123"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "store_error",
			body: `{"email":"max@example.com","password":"secret123"}`,
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				return user.User{}, errors.New("db down")
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsersStore{getByEmailFn: tt.getByEmailFn}

			h := handlers.NewUsersHandler(store, &fakeTokenIssuer{}, t.TempDir())

			r := setupRouter(http.MethodPost, "/api/users/login", "", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Message string    `json:"message"`
					Token   string    `json:"token"`
					User    user.User `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if resp.User.ID != stored.ID || resp.Token == "" {
					t.Fatalf("unexpected login payload: %s", w.Body.String())
				}
			}
		})
	}
}
