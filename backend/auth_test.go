package main

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type credential struct {
	id   int64
	hash string
}

type fakeCredentials struct {
	users map[string]credential
	err   error
}

func newFakeCredentials(t *testing.T, email, password string, id int64) *fakeCredentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeCredentials{users: map[string]credential{email: {id: id, hash: string(hash)}}}
}

func (c *fakeCredentials) PasswordHash(_ context.Context, email string) (int64, string, error) {
	if c.err != nil {
		return 0, "", c.err
	}
	u, ok := c.users[email]
	if !ok {
		return 0, "", errNoSuchUser
	}
	return u.id, u.hash, nil
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := issueToken(testSecret, userID, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthSuite(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		testLogin(t)
	})
	t.Run("Authenticate", func(t *testing.T) {
		testAuthenticate(t)
	})
}

func testLogin(t *testing.T) {
	creds := newFakeCredentials(t, "dancer@test.local", "test1234", 42)
	h := loginHandler(creds, testSecret)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		rec := post(`{"email":" dancer@test.local ","password":"test1234"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
			ID    int64  `json:"id"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(42), resp.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := post(`{"email":"dancer@test.local","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_credentials")
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := post(`{"email":"ghost@test.local","password":"test1234"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := post(`{"email":"dancer@test.local"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing_fields")
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := post(`{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_json")
	})

	t.Run("store failure", func(t *testing.T) {
		broken := loginHandler(&fakeCredentials{err: errors.New("down")}, testSecret)
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a","password":"b"}`))
		rec := httptest.NewRecorder()
		broken(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func testAuthenticate(t *testing.T) {
	var seen int64
	h := authenticate(testSecret, func(w http.ResponseWriter, r *http.Request) {
		seen, _ = viewerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/discover", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec.Code
	}

	t.Run("valid token", func(t *testing.T) {
		seen = 0
		assert.Equal(t, http.StatusNoContent, call(bearer(t, 7)))
		assert.Equal(t, int64(7), seen)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(""))
	})

	t.Run("expired token", func(t *testing.T) {
		tok, err := issueToken(testSecret, 7, time.Now().Add(-48*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})

	t.Run("foreign secret", func(t *testing.T) {
		tok, err := issueToken([]byte("other"), 7, time.Now())
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})

	t.Run("token without expiry", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7}).SignedString(testSecret)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})

	t.Run("token without user", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString(testSecret)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call("Bearer "+tok))
	})
}
