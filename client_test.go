package sessionclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBuilderRejectsMissingBaseURL(t *testing.T) {
	if _, err := New().WithRole(RoleEmployee).Build(); err == nil {
		t.Fatal("expected build to fail without base URL")
	}
}

func TestBuilderRejectsUnknownRole(t *testing.T) {
	_, err := New().
		WithBaseURL("https://api.example.com").
		WithRole(Role("auditor")).
		Build()
	if err == nil {
		t.Fatal("expected build to fail for unknown role without paths")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithBaseURL("https://api.example.com").WithRole(RoleEmployee)

	if _, err := b.Build(); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestCustomRoleConfig(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/kiosk/v2/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"up"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New().
		WithBaseURL(srv.URL).
		WithRoleConfig(RoleConfig{
			Name:        Role("kiosk"),
			PathPrefix:  "/kiosk/v2",
			RefreshPath: "/kiosk/v2/refresh-token",
			LogoutPath:  "/kiosk/v2/logout",
		}).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer client.Close()

	res, err := client.Get(context.Background(), "/status")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := res.DecodeJSON(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.Status != "up" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestRequestOptionsApplyHeadersAndQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/employee/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "august" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Trace") != "abc" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, RoleEmployee)
	defer client.Close()

	_, err := client.Get(context.Background(), "/search",
		WithQuery("q", "august"),
		WithHeader("X-Trace", "abc"),
	)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
}

func TestAbsolutePathSkipsRolePrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/rooms", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, RoleManager)
	defer client.Close()

	if _, err := client.Get(context.Background(), "/chat/rooms", WithAbsolutePath()); err != nil {
		t.Fatalf("absolute path request failed: %v", err)
	}
}

func TestCallerRequestIDPropagates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/employee/data", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") != "trace-77" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL, RoleEmployee)
	defer client.Close()

	ctx := WithRequestID(context.Background(), "trace-77")
	if _, err := client.Get(ctx, "/data"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
}

func TestEncodeBodyRejectsUnencodable(t *testing.T) {
	client := newTestClient(t, "https://api.example.com", RoleEmployee)
	defer client.Close()

	_, err := client.Post(context.Background(), "/data", func() {})
	if !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("expected body sentinel, got %v", err)
	}
}

func TestAPIErrorUnwrapsSentinels(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusConflict, ErrConflict},
	}

	for _, tc := range cases {
		err := newAPIError(tc.status, []byte(`{"message":"m"}`))
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("status %d must unwrap to %v", tc.status, tc.sentinel)
		}
	}

	if errors.Is(newAPIError(http.StatusInternalServerError, nil), ErrUnauthorized) {
		t.Fatal("500 must not unwrap to a recovery sentinel")
	}
}

func TestExtractMessageToleratesNonJSON(t *testing.T) {
	if got := extractMessage([]byte("<html>oops</html>")); got != "" {
		t.Fatalf("expected empty message for non-JSON body, got %q", got)
	}
	if got := extractMessage([]byte(`{"message":"taken"}`)); got != "taken" {
		t.Fatalf("expected extracted message, got %q", got)
	}
	if got := extractMessage(nil); got != "" {
		t.Fatalf("expected empty message for empty body, got %q", got)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	if _, err := client.Get(context.Background(), "/data"); !errors.Is(err, ErrClientNotReady) {
		t.Fatalf("expected not-ready sentinel, got %v", err)
	}
}
