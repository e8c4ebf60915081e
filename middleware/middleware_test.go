package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talentclub/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T) string {
	t.Helper()
	claims := Claims{
		Username: "root",
		AdminID:  "admin-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestAuthenticateRejectsMissingAndMalformedTokens(t *testing.T) {
	next := Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		t.Fatal("handler reached without a valid token")
	})

	for _, header := range []string{"", "not-a-bearer", "Bearer garbage"} {
		r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		next(w, r, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthenticatePassesAdminIDThroughContext(t *testing.T) {
	var gotAdminID any
	next := Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gotAdminID = r.Context().Value(globals.AdminIDKey)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t))
	w := httptest.NewRecorder()
	next(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotAdminID != "admin-1" {
		t.Fatalf("admin id not propagated, got %v", gotAdminID)
	}
}

func TestValidateJWT(t *testing.T) {
	claims, err := ValidateJWT("Bearer " + signToken(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Username != "root" || claims.AdminID != "admin-1" {
		t.Fatalf("wrong claims: %+v", claims)
	}

	if _, err := ValidateJWT(""); err == nil {
		t.Fatal("empty header must not validate")
	}
	if _, err := ValidateJWT("Bearer garbage"); err == nil {
		t.Fatal("garbage token must not validate")
	}
}
