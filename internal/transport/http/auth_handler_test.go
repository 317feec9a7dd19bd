package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gtu-transit/auth-gateway/internal/service"
)

type fakeAuthAPI struct {
	result *service.LoginResult
	err    error
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return f.result, f.err
}

func (f *fakeAuthAPI) LoginPassenger(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return f.result, f.err
}

func (f *fakeAuthAPI) RegisterPassenger(ctx context.Context, name, email, password string) (*service.LoginResult, error) {
	return f.result, f.err
}

type fakeResetAPI struct {
	requestErr error
	resetErr   error

	requestedEmails []string
	resetCalls      []struct {
		token    string
		password string
	}
}

func (f *fakeResetAPI) RequestPasswordReset(ctx context.Context, email string) error {
	f.requestedEmails = append(f.requestedEmails, email)
	return f.requestErr
}

func (f *fakeResetAPI) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.resetCalls = append(f.resetCalls, struct {
		token    string
		password string
	}{token: token, password: newPassword})
	return f.resetErr
}

type fakeDrainer struct {
	drained int
	pending int
}

func (f *fakeDrainer) Drain(ctx context.Context) error {
	f.drained++
	return nil
}

func (f *fakeDrainer) Pending() (int, error) {
	return f.pending, nil
}

func doJSON(t *testing.T, handlerSetup func() http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerSetup().ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpointStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "success", err: nil, wantStatus: http.StatusOK},
		{name: "bad credentials", err: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "directory down", err: service.ErrDirectoryUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "missing input", err: service.ErrValidation, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, func() http.Handler {
				e := NewRouter([]string{"*"})
				RegisterAuth(e, &fakeAuthAPI{result: &service.LoginResult{Token: "jwt"}, err: tc.err}, &fakeResetAPI{})
				return e
			}, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw"}`)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestResetEndpointsStatusMapping(t *testing.T) {
	t.Run("request reset conflict", func(t *testing.T) {
		reset := &fakeResetAPI{requestErr: service.ErrResetPending}
		rec := doJSON(t, func() http.Handler {
			e := NewRouter([]string{"*"})
			RegisterAuth(e, &fakeAuthAPI{}, reset)
			return e
		}, http.MethodPost, "/reset-password-request", `{"email":"a@x.com"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if len(reset.requestedEmails) != 1 || reset.requestedEmails[0] != "a@x.com" {
			t.Fatalf("expected request for a@x.com, got %v", reset.requestedEmails)
		}
	})

	t.Run("request reset unknown email", func(t *testing.T) {
		rec := doJSON(t, func() http.Handler {
			e := NewRouter([]string{"*"})
			RegisterAuth(e, &fakeAuthAPI{}, &fakeResetAPI{requestErr: service.ErrPrincipalNotFound})
			return e
		}, http.MethodPost, "/reset-password-request", `{"email":"a@x.com"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("redeem invalid token", func(t *testing.T) {
		rec := doJSON(t, func() http.Handler {
			e := NewRouter([]string{"*"})
			RegisterAuth(e, &fakeAuthAPI{}, &fakeResetAPI{resetErr: service.ErrResetTokenInvalid})
			return e
		}, http.MethodPost, "/reset-password", `{"token":"tok","newPassword":"pw"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("redeem success passes fields through", func(t *testing.T) {
		reset := &fakeResetAPI{}
		rec := doJSON(t, func() http.Handler {
			e := NewRouter([]string{"*"})
			RegisterAuth(e, &fakeAuthAPI{}, reset)
			return e
		}, http.MethodPost, "/reset-password", `{"token":"tok-1","newPassword":"NewPass1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(reset.resetCalls) != 1 || reset.resetCalls[0].token != "tok-1" || reset.resetCalls[0].password != "NewPass1" {
			t.Fatalf("unexpected reset call: %+v", reset.resetCalls)
		}
	})

	t.Run("internal errors stay opaque", func(t *testing.T) {
		rec := doJSON(t, func() http.Handler {
			e := NewRouter([]string{"*"})
			RegisterAuth(e, &fakeAuthAPI{}, &fakeResetAPI{requestErr: context.DeadlineExceeded})
			return e
		}, http.MethodPost, "/reset-password-request", `{"email":"a@x.com"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "deadline") {
			t.Fatalf("internal error detail leaked: %s", rec.Body.String())
		}
	})
}

func TestHealthDrainsSpool(t *testing.T) {
	drainer := &fakeDrainer{pending: 2}
	e := NewRouter([]string{"*"}, drainer)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if drainer.drained != 1 {
		t.Fatalf("expected health check to trigger a drain pass")
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["spooled_events"] != float64(2) {
		t.Fatalf("expected spooled_events 2, got %v", body["spooled_events"])
	}
}
