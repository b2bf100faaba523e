package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tuinue/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterDonor(t *testing.T) {
	t.Run("stores a hashed password", func(t *testing.T) {
		env := newTestEnv(t)

		body := `{"first_name":"Wanjiku","last_name":"Kamau","email":"wanjiku@example.com","password":"hunter2","is_anonymous":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/register", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		if len(env.donors.created) != 1 {
			t.Fatalf("expected 1 donor created, got %d", len(env.donors.created))
		}

		donor := env.donors.created[0]
		if donor.PasswordHash == "hunter2" {
			t.Error("password stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(donor.PasswordHash), []byte("hunter2")); err != nil {
			t.Errorf("stored hash does not verify against the submitted password: %v", err)
		}
		if !donor.IsAnonymous {
			t.Error("expected is_anonymous to be carried through")
		}
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.donors.CreateFunc = func(_ context.Context, _ *types.Donor) error {
			return types.ErrDuplicateEmail
		}

		body := `{"first_name":"Wanjiku","last_name":"Kamau","email":"wanjiku@example.com","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/register", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already exists") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		env := newTestEnv(t)

		body := `{"first_name":"Wanjiku","last_name":"Kamau","email":"not-an-email","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/register", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if len(env.donors.created) != 0 {
			t.Errorf("expected no donor created, got %d", len(env.donors.created))
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		body := `{"email":"wanjiku@example.com","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/register", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestLoginDonor(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	donor := &types.Donor{
		ID:           "donor-1",
		Email:        "wanjiku@example.com",
		PasswordHash: string(hash),
	}

	t.Run("sets a session cookie on success", func(t *testing.T) {
		env := newTestEnv(t)
		env.donors.DonorByEmailFunc = func(_ context.Context, email string) (*types.Donor, error) {
			if email != donor.Email {
				return nil, types.ErrDonorNotFound
			}
			return donor, nil
		}

		body := `{"email":"wanjiku@example.com","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/login", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var session *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionCookieName {
				session = c
			}
		}
		if session == nil || session.Value == "" {
			t.Fatal("expected a session cookie to be set")
		}

		principalID, role, err := env.svc.parseSessionCookie(session.Value)
		if err != nil {
			t.Fatalf("parseSessionCookie: %v", err)
		}
		if principalID != "donor-1" || role != roleDonor {
			t.Errorf("unexpected session principal %s role %s", principalID, role)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		env.donors.DonorByEmailFunc = func(_ context.Context, email string) (*types.Donor, error) {
			return donor, nil
		}

		body := `{"email":"wanjiku@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/login", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects an unknown email with the same message", func(t *testing.T) {
		env := newTestEnv(t)

		body := `{"email":"nobody@example.com","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/donors/login", strings.NewReader(body))
		rec := env.do(req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid email or password") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})
}

func TestListDonors(t *testing.T) {
	env := newTestEnv(t)

	var gotLimit, gotOffset uint64
	env.donors.DonorsFunc = func(_ context.Context, limit, offset uint64) ([]*types.Donor, error) {
		gotLimit, gotOffset = limit, offset
		return []*types.Donor{{ID: "donor-1"}, {ID: "donor-2"}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/donors?page=3&per_page=10", nil)
	rec := env.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("expected limit 10 offset 20, got limit %d offset %d", gotLimit, gotOffset)
	}

	var donors []*types.Donor
	if err := json.NewDecoder(rec.Body).Decode(&donors); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(donors) != 2 {
		t.Errorf("expected 2 donors, got %d", len(donors))
	}
}

func TestGetDonor(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/api/donors/missing", nil)
		rec := env.do(req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Donor not found") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("found", func(t *testing.T) {
		env := newTestEnv(t)
		env.donors.DonorFunc = func(_ context.Context, donorID string) (*types.Donor, error) {
			if donorID != "donor-1" {
				return nil, types.ErrDonorNotFound
			}
			return &types.Donor{ID: "donor-1", Email: "wanjiku@example.com"}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/api/donors/donor-1", nil)
		rec := env.do(req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var donor types.Donor
		if err := json.NewDecoder(rec.Body).Decode(&donor); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if donor.ID != "donor-1" {
			t.Errorf("unexpected donor %q", donor.ID)
		}
	})

	t.Run("literal routes are not shadowed", func(t *testing.T) {
		env := newTestEnv(t)

		// /api/donors/logout must hit the logout handler, not :id.
		req := httptest.NewRequest(http.MethodGet, "/api/donors/logout", nil)
		req.AddCookie(env.sessionCookie(t, "donor-1", roleDonor))
		rec := env.do(req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from logout, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Logout successful!") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})
}
