package identity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

const (
	testAnonKey = "anon-key"
	userID      = "3f8a2c4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b"
	otherUserID = "7c9e1f2a-3b4c-4d5e-9f6a-7b8c9d0e1f2a"
)

// newTestClient starts a fake provider and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClientWithHTTP(srv.URL, testAnonKey, srv.Client(), nil)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	return body
}

func TestResolveUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("apikey"); got != testAnonKey {
			t.Errorf("apikey = %q", got)
		}
		_, _ = io.WriteString(w, `{"id":"3f8a2c4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b","email":"ada@example.com","user_metadata":{"name":"Ada"}}`)
	})

	user, err := client.ResolveUser(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if user.ID != userID || user.Email != "ada@example.com" || user.DisplayName() != "Ada" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestResolveUserRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"code":403,"error_code":"bad_jwt","msg":"invalid JWT: token is expired"}`)
	})

	_, err := client.ResolveUser(context.Background(), "expired")

	var providerErr *Error
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if providerErr.Status != http.StatusForbidden || providerErr.ErrorCode != CodeBadJWT {
		t.Fatalf("unexpected error: %+v", providerErr)
	}
	if !providerErr.IsClientError() {
		t.Fatal("a 403 is a client error")
	}
}

func TestSignUpWithoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body := decodeBody(t, r)
		if body["email"] != "ada@example.com" || body["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", body)
		}
		data, _ := body["data"].(map[string]any)
		if data["name"] != "Ada" {
			t.Errorf("metadata not forwarded: %v", body["data"])
		}
		_, _ = io.WriteString(w, `{"id":"3f8a2c4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b","email":"ada@example.com","user_metadata":{"name":"Ada"}}`)
	})

	user, session, err := client.SignUp(context.Background(), "ada@example.com", "secret", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session != nil {
		t.Fatalf("expected no session, got %+v", session)
	}
	if user.ID != userID {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestSignUpWithSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600,"refresh_token":"ref","user":{"id":"7c9e1f2a-3b4c-4d5e-9f6a-7b8c9d0e1f2a","email":"bob@example.com"}}`)
	})

	user, session, err := client.SignUp(context.Background(), "bob@example.com", "secret", nil)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session == nil || session.AccessToken != "tok" {
		t.Fatalf("expected a session, got %+v", session)
	}
	if user.ID != otherUserID {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestSignUpDuplicate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`)
	})

	_, _, err := client.SignUp(context.Background(), "ada@example.com", "secret", nil)

	var providerErr *Error
	if !errors.As(err, &providerErr) || providerErr.ErrorCode != CodeUserAlreadyExists {
		t.Fatalf("expected user_already_exists, got %v", err)
	}
	if providerErr.Message != "User already registered" {
		t.Fatalf("message = %q", providerErr.Message)
	}
}

func TestSignIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600,"expires_at":1700000000,"refresh_token":"ref","user":{"id":"3f8a2c4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b","email":"ada@example.com"}}`)
	})

	session, err := client.SignIn(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.AccessToken != "tok" || session.User == nil || session.User.ID != userID {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSignInOAuthStyleError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	})

	_, err := client.SignIn(context.Background(), "ada@example.com", "wrong")

	var providerErr *Error
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if providerErr.ErrorCode != CodeInvalidGrant || providerErr.Message != "Invalid login credentials" {
		t.Fatalf("unexpected error: %+v", providerErr)
	}
}

func TestSendResetEmailCarriesRedirect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/recover" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("redirect_to"); got != "http://localhost:3000/reset-password" {
			t.Errorf("redirect_to = %q", got)
		}
		if body := decodeBody(t, r); body["email"] != "ada@example.com" {
			t.Errorf("email = %v", body["email"])
		}
		_, _ = io.WriteString(w, `{}`)
	})

	if err := client.SendResetEmail(context.Background(), "ada@example.com", "http://localhost:3000/reset-password"); err != nil {
		t.Fatalf("SendResetEmail: %v", err)
	}
}

func TestSignOutUsesCallerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer caller" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.SignOut(context.Background(), "caller"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
}

func TestUpdateUserMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body := decodeBody(t, r)
		data, _ := body["data"].(map[string]any)
		if len(data) != 1 || data["phone"] != "+15550100" {
			t.Errorf("unexpected data: %v", body["data"])
		}
		_, _ = io.WriteString(w, `{"id":"3f8a2c4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b","email":"ada@example.com","user_metadata":{"name":"Ada","phone":"+15550100"}}`)
	})

	user, err := client.UpdateUserMetadata(context.Background(), "tok", map[string]any{"phone": "+15550100"})
	if err != nil {
		t.Fatalf("UpdateUserMetadata: %v", err)
	}
	if user.UserMetadata["name"] != "Ada" || user.UserMetadata["phone"] != "+15550100" {
		t.Fatalf("unexpected metadata: %v", user.UserMetadata)
	}
}

func TestUpdatePassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if body := decodeBody(t, r); body["password"] != "new-secret" {
			t.Errorf("password = %v", body["password"])
		}
		_, _ = io.WriteString(w, `{"id":"3f8a2c4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b","email":"ada@example.com"}`)
	})

	if _, err := client.UpdatePassword(context.Background(), "reset-token", "new-secret"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
}

func TestTransportFailureIsNotProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClientWithHTTP(srv.URL, testAnonKey, srv.Client(), nil)
	srv.Close()

	_, err := client.ResolveUser(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}

	var providerErr *Error
	if errors.As(err, &providerErr) {
		t.Fatalf("transport failure must not be an *Error: %v", err)
	}
}

func TestCanceledContextStopsTheCall(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the provider")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ResolveUser(ctx, "tok")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUserTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"`+userID+`","email":"ada@example.com","created_at":"2024-01-02T03:04:05Z"}`)
	})

	user, err := client.ResolveUser(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if user.CreatedAt == nil || user.CreatedAt.Year() != 2024 {
		t.Fatalf("created_at = %v", user.CreatedAt)
	}
	if user.UpdatedAt != nil || user.ConfirmedAt != nil {
		t.Fatalf("absent timestamps must stay nil: %+v", user)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.ResolveUser(context.Background(), "tok")

	var providerErr *Error
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if providerErr.IsClientError() || providerErr.Message != "Bad Gateway" {
		t.Fatalf("unexpected error: %+v", providerErr)
	}
}

func TestBaseURLNormalization(t *testing.T) {
	for _, in := range []string{"https://x.supabase.co", "https://x.supabase.co/", "https://x.supabase.co/auth/v1"} {
		c := NewClientWithHTTP(in, testAnonKey, http.DefaultClient, nil)
		if c.baseURL != "https://x.supabase.co/auth/v1" {
			t.Errorf("NewClientWithHTTP(%q).baseURL = %q", in, c.baseURL)
		}
	}
}
