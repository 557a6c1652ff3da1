package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pawrescue/apperr"
)

func TestMockModeIsDeterministic(t *testing.T) {
	c := NewClient("app", "", "http://unused.test", time.Second)
	if !c.MockMode() {
		t.Fatal("client without a secret should run in mock mode")
	}
	for _, code := range []string{"code-a", "code-b", ""} {
		id, err := c.Exchange(context.Background(), code)
		if err != nil {
			t.Fatalf("Exchange(%q) returned error: %v", code, err)
		}
		if id != MockIdentity {
			t.Errorf("Exchange(%q) = %q, expected the fixed mock identity", code, id)
		}
	}
}

func TestExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("js_code"); got != "the-code" {
			t.Errorf("js_code = %q, expected the-code", got)
		}
		w.Write([]byte(`{"openid":"wx_user_42"}`))
	}))
	defer srv.Close()

	c := NewClient("app", "secret", srv.URL, time.Second)
	id, err := c.Exchange(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}
	if id != "wx_user_42" {
		t.Errorf("identity = %q, expected wx_user_42", id)
	}
}

func TestExchangeErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		expected error
	}{
		{"provider errcode", `{"errcode":40029,"errmsg":"invalid code"}`, http.StatusOK, apperr.ErrIdentityProviderProtocol},
		{"empty openid", `{}`, http.StatusOK, apperr.ErrIdentityProviderProtocol},
		{"malformed body", `not json`, http.StatusOK, apperr.ErrIdentityProviderProtocol},
		{"http failure", `oops`, http.StatusBadGateway, apperr.ErrIdentityProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("app", "secret", srv.URL, time.Second)
			_, err := c.Exchange(context.Background(), "code")
			if !errors.Is(err, tt.expected) {
				t.Errorf("err = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestExchangeUnreachableProvider(t *testing.T) {
	c := NewClient("app", "secret", "http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.Exchange(context.Background(), "code")
	if !errors.Is(err, apperr.ErrIdentityProviderUnavailable) {
		t.Errorf("err = %v, expected ErrIdentityProviderUnavailable", err)
	}
}
