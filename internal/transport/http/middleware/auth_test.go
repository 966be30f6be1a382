package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/lease-service/internal/application/auth"
	"github.com/baechuer/lease-service/internal/domain"
)

// ---- fakes ----

type fakeVerifier struct {
	claims auth.TokenClaims
	err    error
	calls  int
	gotTok string
}

func (f *fakeVerifier) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	f.calls++
	f.gotTok = token
	return f.claims, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusTeapot)
}

type nextRecorder struct {
	calls   int
	gotUID  string
	gotRole string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	c := CallerFromContext(r.Context())
	n.gotUID = c.UserID
	n.gotRole = c.Role
	w.WriteHeader(http.StatusOK)
}

func runAuth(t *testing.T, v *fakeVerifier, header string) (*writeErrRecorder, *nextRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	Auth(v, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)
	return we, nx
}

func TestAuth_MissingHeader_TokenMissing(t *testing.T) {
	for _, h := range []string{"", "   ", "Bearer", "Bearer    "} {
		v := &fakeVerifier{}
		we, nx := runAuth(t, v, h)

		if we.calls != 1 || !domain.Is(we.last, "token_missing") {
			t.Fatalf("header %q: expected token_missing, got %v", h, we.last)
		}
		if v.calls != 0 || nx.calls != 0 {
			t.Fatalf("header %q: verifier/next must not run", h)
		}
	}
}

func TestAuth_WrongScheme_TokenInvalid(t *testing.T) {
	v := &fakeVerifier{}
	we, nx := runAuth(t, v, "Basic dXNlcjpwdw==")

	if !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
	if v.calls != 0 || nx.calls != 0 {
		t.Fatalf("verifier/next must not run")
	}
}

func TestAuth_BearerAndBareToken_BothAccepted(t *testing.T) {
	for _, h := range []string{"Bearer tok-1", "bearer   tok-1", "tok-1"} {
		v := &fakeVerifier{claims: auth.TokenClaims{UserID: "u1", Role: "dealer"}}
		we, nx := runAuth(t, v, h)

		if we.calls != 0 {
			t.Fatalf("header %q: unexpected error %v", h, we.last)
		}
		if v.gotTok != "tok-1" {
			t.Fatalf("header %q: verifier got %q", h, v.gotTok)
		}
		if nx.calls != 1 || nx.gotUID != "u1" || nx.gotRole != "dealer" {
			t.Fatalf("header %q: unexpected next state %+v", h, nx)
		}
	}
}

func TestAuth_VerifierError_Propagates(t *testing.T) {
	v := &fakeVerifier{err: domain.ErrTokenExpired()}
	we, nx := runAuth(t, v, "Bearer tok")

	if !domain.Is(we.last, "token_expired") {
		t.Fatalf("expected token_expired, got %v", we.last)
	}
	if nx.calls != 0 {
		t.Fatalf("next must not run")
	}
}

func TestAuth_EmptySubject_TokenInvalid(t *testing.T) {
	v := &fakeVerifier{claims: auth.TokenClaims{UserID: "  ", Role: "customer"}}
	we, nx := runAuth(t, v, "Bearer tok")

	if !domain.Is(we.last, "token_invalid") || nx.calls != 0 {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		wantCode string
	}{
		{"dealer allowed", "dealer", ""},
		{"customer rejected", "customer", "insufficient_role"},
		{"no auth context", "", "token_missing"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.role != "" {
				req = req.WithContext(WithUser(req.Context(), "u1", tc.role))
			}
			we := &writeErrRecorder{}
			nx := &nextRecorder{}

			RequireRole(we.fn, domain.RoleDealer)(nx).ServeHTTP(httptest.NewRecorder(), req)

			if tc.wantCode == "" {
				if we.calls != 0 || nx.calls != 1 {
					t.Fatalf("expected pass-through, err=%v", we.last)
				}
				return
			}
			if !domain.Is(we.last, tc.wantCode) || nx.calls != 0 {
				t.Fatalf("expected %s, got %v", tc.wantCode, we.last)
			}
		})
	}
}

func TestCallerFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	c := CallerFromContext(req.Context())
	if c.UserID != "" || c.Role != "" {
		t.Fatalf("expected zero caller, got %+v", c)
	}
	if _, ok := UserIDFromContext(WithUser(req.Context(), "", "dealer")); ok {
		t.Fatalf("empty user id must not count as present")
	}
}
