package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newTestHandler(state string) *OAuthHandler {
	config := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://localhost/auth",
			TokenURL: "http://localhost/token",
		},
	}
	return NewOAuthHandler(config, state)
}

func TestOAuthHandler(t *testing.T) {
	t.Run("rejects mismatched state", func(t *testing.T) {
		handler := newTestHandler("expected")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Fatal("expected error result for bad state")
		}
		if !strings.Contains(result.Error().Error(), "state") {
			t.Errorf("expected state error, got %v", result.Error())
		}
	})

	t.Run("rejects missing code", func(t *testing.T) {
		handler := newTestHandler("s")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied&error_description=denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Fatal("expected error result for missing code")
		}
		if !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected provider error in message, got %v", result.Error())
		}
	})

	t.Run("honors only the first callback", func(t *testing.T) {
		handler := newTestHandler("s")

		first := httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=s&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected repeat callback rejection, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already processed") {
			t.Errorf("expected already-processed message, got %q", rec.Body.String())
		}
	})

	t.Run("routes serve the callback path", func(t *testing.T) {
		handler := newTestHandler("s")
		routes := handler.Routes()

		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("unexpected routes: %v", routes)
		}
	})
}

func TestRandomState(t *testing.T) {
	a, err := RandomState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := RandomState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct state tokens")
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("dispatches by method", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("applies middleware in order", func(t *testing.T) {
		router := NewBasicRouter()
		var trace []string

		mw := func(label string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					trace = append(trace, label)
					next.ServeHTTP(w, r)
				})
			}
		}

		router.Use(mw("outer"), mw("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace = append(trace, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		want := []string{"outer", "inner", "handler"}
		if len(trace) != len(want) {
			t.Fatalf("expected %v, got %v", want, trace)
		}
		for i := range want {
			if trace[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, trace)
			}
		}
	})
}
