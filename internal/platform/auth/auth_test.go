package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func testClaims() *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "https://auth.clinic.example",
			Audience:  jwt.ClaimStrings{"clinicore"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID: "sess-1",
		TenantID:  "b2a7c81e-4a71-4f3c-9a39-6a2d3e5f7a90",
		Scopes:    []string{"patients:read", "patients:write"},
	}
}

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(VerifierConfig{
		Issuer:     "https://auth.clinic.example",
		Audience:   "clinicore",
		SigningKey: testKey,
	})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func TestVerifyValidToken(t *testing.T) {
	v := newTestVerifier(t)

	claims, err := v.Verify(signToken(t, testClaims()))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if len(claims.Scopes) != 2 {
		t.Errorf("scopes = %v", claims.Scopes)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := newTestVerifier(t)

	c := testClaims()
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err := v.Verify(signToken(t, c))
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	v := newTestVerifier(t)

	c := testClaims()
	c.Issuer = "https://other.example"
	_, err := v.Verify(signToken(t, c))
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestVerifyWrongAudience(t *testing.T) {
	v := newTestVerifier(t)

	c := testClaims()
	c.Audience = jwt.ClaimStrings{"someone-else"}
	_, err := v.Verify(signToken(t, c))
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	v := newTestVerifier(t)

	token := signToken(t, testClaims())
	_, err := v.Verify(token[:len(token)-3] + "xxx")
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestNewVerifierRequiresKeySource(t *testing.T) {
	_, err := NewVerifier(VerifierConfig{Issuer: "x"})
	if err == nil {
		t.Fatal("expected error for missing key material")
	}
}

func runWithMiddleware(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, Principal) {
	e := echo.New()
	var got Principal
	e.GET("/probe", func(c echo.Context) error {
		got = PrincipalFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, got
}

func TestMiddlewareInjectsPrincipal(t *testing.T) {
	v := newTestVerifier(t)
	mw := Middleware(v, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testClaims()))

	rec, p := runWithMiddleware(mw, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if p.Subject != "user-42" || p.TokenTenantID == "" {
		t.Errorf("principal = %+v", p)
	}
	if !p.HasScope("patients:read") || p.HasScope("admin") {
		t.Errorf("scopes = %v", p.Scopes)
	}
}

func TestMiddlewareRejectsBadCredentials(t *testing.T) {
	v := newTestVerifier(t)
	mw := Middleware(v, zerolog.Nop())

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			called := false
			e.GET("/probe", func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			}, mw)

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if called {
				t.Error("handler must not run without a valid bearer token")
			}
		})
	}
}

func TestDevMiddlewareGrantsFullAccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec, p := runWithMiddleware(DevMiddleware(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !p.HasScope("admin") || !p.HasScope("prescriptions:write") {
		t.Errorf("dev principal scopes = %v", p.Scopes)
	}
}

func TestRequireScopeORPolicy(t *testing.T) {
	cases := []struct {
		name     string
		granted  []string
		required []string
		allowed  bool
	}{
		{"exact match", []string{"patients:read"}, []string{"patients:read"}, true},
		{"either of two", []string{"admin"}, []string{"patients:write", "admin"}, true},
		{"none held", []string{"staff:read"}, []string{"patients:read", "admin"}, false},
		{"no scopes at all", nil, []string{"patients:read"}, false},
		{"no wildcard expansion", []string{"patients"}, []string{"patients:read"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			called := false
			e.GET("/probe", func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			}, func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					ctx := WithPrincipal(c.Request().Context(), Principal{Subject: "u", Scopes: tc.granted})
					c.SetRequest(c.Request().WithContext(ctx))
					return next(c)
				}
			}, RequireScope(zerolog.Nop(), tc.required...))

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if called != tc.allowed {
				t.Errorf("handler called = %v, want %v", called, tc.allowed)
			}
		})
	}
}
