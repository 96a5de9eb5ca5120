// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ─────────────────────────────────────────────
// context
// ─────────────────────────────────────────────

func TestGetBearerTokenFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), BearerTokenCtxKey, "abc")
	if got, ok := GetBearerTokenFromContext(ctx); !ok || got != "abc" {
		t.Fatalf("expected (abc, true), got (%q, %v)", got, ok)
	}

	if _, ok := GetBearerTokenFromContext(context.Background()); ok {
		t.Error("expected ok=false for missing token")
	}

	empty := context.WithValue(context.Background(), BearerTokenCtxKey, "")
	if _, ok := GetBearerTokenFromContext(empty); ok {
		t.Error("expected ok=false for empty token")
	}

	wrongType := context.WithValue(context.Background(), BearerTokenCtxKey, 42)
	if _, ok := GetBearerTokenFromContext(wrongType); ok {
		t.Error("expected ok=false for non-string value")
	}

	if BearerTokenCtxKey.String() != "bearerToken" {
		t.Errorf("unexpected key string %q", BearerTokenCtxKey.String())
	}
}

func TestGetClientIPFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClientIPCtxKey, "192.0.2.1")
	if got, ok := GetClientIPFromContext(ctx); !ok || got != "192.0.2.1" {
		t.Fatalf("expected (192.0.2.1, true), got (%q, %v)", got, ok)
	}

	if _, ok := GetClientIPFromContext(context.Background()); ok {
		t.Error("expected ok=false for missing address")
	}

	empty := context.WithValue(context.Background(), ClientIPCtxKey, "")
	if _, ok := GetClientIPFromContext(empty); ok {
		t.Error("expected ok=false for empty address")
	}
}

// ─────────────────────────────────────────────
// password hashing
// ─────────────────────────────────────────────

func TestHashPassword_Deterministic(t *testing.T) {
	a := HashPassword("secret", "salt", 1000)
	b := HashPassword("secret", "salt", 1000)
	if a != b {
		t.Fatalf("expected equal hashes, got %q and %q", a, b)
	}
	// 32 bytes -> 44 base64 chars with padding
	if len(a) != 44 {
		t.Errorf("expected 44 chars, got %d", len(a))
	}
}

func TestHashPassword_KnownVector(t *testing.T) {
	// RFC 7914 section 11 PBKDF2-HMAC-SHA256 vector, first 32 bytes
	got := HashPassword("passwd", "salt", 1)
	want := "VawEblbjCJ/sFpHCJUS2BflBhSFt3gRl5oudV8INrLw="
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHashPassword_SaltAndIterationsMatter(t *testing.T) {
	base := HashPassword("secret", "salt", 1000)
	if base == HashPassword("secret", "other", 1000) {
		t.Error("different salts produced the same hash")
	}
	if base == HashPassword("secret", "salt", 1001) {
		t.Error("different iteration counts produced the same hash")
	}
	if base == HashPassword("Secret", "salt", 1000) {
		t.Error("different passwords produced the same hash")
	}
}

func TestEqualHashes(t *testing.T) {
	if !EqualHashes("abc", "abc") {
		t.Error("expected equal")
	}
	if EqualHashes("abc", "abd") || EqualHashes("abc", "ab") {
		t.Error("expected not equal")
	}
}

// ─────────────────────────────────────────────
// JWT
// ─────────────────────────────────────────────

var testSignKey = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidateJWTToken(t *testing.T) {
	now := time.Now()
	token, err := GenerateJWTToken("uuid-1", "alice", now, time.Hour, testSignKey)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" || strings.Count(token.SignedString, ".") != 2 {
		t.Fatalf("unexpected compact token %q", token.SignedString)
	}
	if token.ExpiresAt != now.Add(time.Hour).UnixMilli() {
		t.Errorf("expected exp in millis, got %d", token.ExpiresAt)
	}

	claims, err := ValidateAndParseJWTToken(token.SignedString, testSignKey, time.Now)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if claims.Subject != "uuid-1" || claims.Username != "alice" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateAndParseJWTToken_ExpiryBoundary(t *testing.T) {
	issued := time.UnixMilli(1_700_000_000_000)
	token, err := GenerateJWTToken("uuid-1", "alice", issued, time.Hour, testSignKey)
	if err != nil {
		t.Fatal(err)
	}
	exp := token.Expiry()

	if _, err := ValidateAndParseJWTToken(token.SignedString, testSignKey, func() time.Time { return exp }); err != nil {
		t.Errorf("expected token to be valid at exp, got: %v", err)
	}
	if _, err := ValidateAndParseJWTToken(token.SignedString, testSignKey, func() time.Time { return exp.Add(time.Millisecond) }); err == nil {
		t.Error("expected token to be rejected one millisecond after exp")
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	now := time.Now()
	if _, err := GenerateJWTToken("", "alice", now, time.Hour, testSignKey); err == nil {
		t.Error("expected error for empty subject")
	}
	if _, err := GenerateJWTToken("u", "alice", now, 0, testSignKey); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := GenerateJWTToken("u", "alice", now, time.Hour, nil); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestValidateAndParseJWTToken_Rejects(t *testing.T) {
	now := time.Now()
	valid, err := GenerateJWTToken("uuid-1", "alice", now, time.Hour, testSignKey)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := GenerateJWTToken("uuid-1", "alice", now.Add(-2*time.Hour), time.Hour, testSignKey)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(valid.SignedString, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "uuid-1", "exp": now.Add(time.Hour).UnixMilli()})
	none, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "uuid-1"})
	noExpString, err := noExp.SignedString(testSignKey)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
		key   []byte
	}{
		{name: "wrong key", token: valid.SignedString, key: []byte("another-key")},
		{name: "expired", token: expired.SignedString, key: testSignKey},
		{name: "tampered signature", token: tampered, key: testSignKey},
		{name: "alg none", token: none, key: testSignKey},
		{name: "missing exp", token: noExpString, key: testSignKey},
		{name: "garbage", token: "not-a-jwt", key: testSignKey},
		{name: "empty", token: "", key: testSignKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateAndParseJWTToken(tt.token, tt.key, time.Now); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer token", want: "token"},
		{header: "  Bearer   token  ", want: "token"},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer ", wantErr: true},
		{header: "token-only", wantErr: true},
		{header: "Bearer a b", wantErr: true},
		{header: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBearerToken(tt.header)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidAuthorizationHeader) {
				t.Errorf("%q: expected ErrInvalidAuthorizationHeader, got %v", tt.header, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: expected (%q, nil), got (%q, %v)", tt.header, tt.want, got, err)
		}
	}
}

// ─────────────────────────────────────────────
// HTTP writers
// ─────────────────────────────────────────────

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"key": "value"}

	n, err := WriteJSON(w, data, http.StatusCreated)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero bytes written")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", ct)
	}

	expected, _ := json.Marshal(data)
	if w.Body.String() != string(expected) {
		t.Errorf("expected body %s, got %s", expected, w.Body.String())
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	// channels cannot be marshaled to JSON
	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	if err == nil {
		t.Fatal("expected error for non-serializable data, got nil")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestWriteRaw(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteRaw(w, []byte(`[{"id":"a"}]`), "application/json", http.StatusOK)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if w.Body.String() != `[{"id":"a"}]` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected Content-Type %q", ct)
	}
}

// ─────────────────────────────────────────────
// HTTP client / ids
// ─────────────────────────────────────────────

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient("http://example.test", time.Second)
	if client == nil || client.Client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.BaseURL != "http://example.test" {
		t.Errorf("unexpected base URL %q", client.BaseURL)
	}
	if NewHTTPClient("", 0).Client == client.Client {
		t.Error("expected independent resty clients")
	}
}

func TestUUIDGenerator_Unique(t *testing.T) {
	g := NewUUIDGenerator()
	seen := make(map[string]struct{})
	for range 100 {
		id := g.Generate()
		if len(id) != 36 {
			t.Fatalf("unexpected id %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
