package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// invoke runs the Auth middleware against a request carrying the given
// Authorization header and reports the outcome.
func invoke(t *testing.T, authHeader string) (uid string, nextCalled bool, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error {
		nextCalled = true
		uid, _ = c.Get("uid").(string)
		return nil
	}
	err = Auth(testSecret)(next)(c)
	return uid, nextCalled, err
}

func assertUnauthorized(t *testing.T, err error, nextCalled bool) {
	t.Helper()
	if nextCalled {
		t.Error("handler must not run without valid auth")
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"uid": "uid-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	uid, nextCalled, err := invoke(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nextCalled {
		t.Fatal("handler did not run")
	}
	if uid != "uid-42" {
		t.Errorf("expected uid-42 in context, got %q", uid)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, nextCalled, err := invoke(t, "")
	assertUnauthorized(t, err, nextCalled)
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Basic abc123", "just-a-token"} {
		_, nextCalled, err := invoke(t, header)
		assertUnauthorized(t, err, nextCalled)
	}
}

func TestAuth_WrongSignature(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"uid": "uid-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, nextCalled, err := invoke(t, "Bearer "+token)
	assertUnauthorized(t, err, nextCalled)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"uid": "uid-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, nextCalled, err := invoke(t, "Bearer "+token)
	assertUnauthorized(t, err, nextCalled)
}

func TestAuth_TokenWithoutUID(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, nextCalled, err := invoke(t, "Bearer "+token)
	assertUnauthorized(t, err, nextCalled)
}
