package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hadfield/catalog/pkg/auth"
	"github.com/hadfield/catalog/pkg/httputil"
	"github.com/hadfield/catalog/pkg/storage"
	"github.com/hadfield/catalog/pkg/storage/memory"
)

const testSecret = "test-secret-key"

func newTestServer(t *testing.T) (*Server, *memory.Storage) {
	t.Helper()
	store := memory.NewStorage()
	server := NewServer(ServerOptions{
		Users:    store,
		Products: store,
		Tokens:   auth.NewTokenService([]byte(testSecret), time.Hour),
		Hasher:   auth.NewPasswordHasher(bcrypt.MinCost),
	})
	return server, store
}

func doJSON(t *testing.T, server *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func TestRegister(t *testing.T) {
	server, store := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/users/register", "", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp TokenResponse
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	// The stored record carries a hash, never the raw password.
	user, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	server, _ := newTestServer(t)

	req := RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cret"}
	rec := doJSON(t, server, "POST", "/api/users/register", "", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, "POST", "/api/users/register", "", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httputil.MessageResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "user already exists", resp.Message)
}

func TestRegisterValidation(t *testing.T) {
	server, _ := newTestServer(t)

	testCases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@example.com", Password: "x"}},
		{"missing email", RegisterRequest{Name: "A", Password: "x"}},
		{"missing password", RegisterRequest{Name: "A", Email: "a@example.com"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, server, "POST", "/api/users/register", "", tc.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/users/register", "", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, "POST", "/api/users/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)

	// The profile in the response must not leak the stored hash.
	raw, err := json.Marshal(resp.User)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestLoginInvalidCredentials(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, "POST", "/api/users/register", "", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	bodyFor := func(req LoginRequest) (int, string) {
		rec := doJSON(t, server, "POST", "/api/users/login", "", req)
		var resp httputil.MessageResponse
		decodeBody(t, rec, &resp)
		return rec.Code, resp.Message
	}

	// Unknown email and wrong password must be indistinguishable.
	unknownCode, unknownMsg := bodyFor(LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	wrongCode, wrongMsg := bodyFor(LoginRequest{Email: "alice@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusBadRequest, unknownCode)
	assert.Equal(t, http.StatusBadRequest, wrongCode)
	assert.Equal(t, unknownMsg, wrongMsg)
	assert.Equal(t, "invalid credentials", wrongMsg)
}

func TestLoginTokenCarriesAdminFlag(t *testing.T) {
	server, store := newTestServer(t)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("adminpass")
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), &storage.User{
		Name:         "Root",
		Email:        "root@example.com",
		PasswordHash: hashed,
		IsAdmin:      true,
	}))

	rec := doJSON(t, server, "POST", "/api/users/login", "", LoginRequest{
		Email:    "root@example.com",
		Password: "adminpass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeBody(t, rec, &resp)

	claims, err := auth.NewTokenService([]byte(testSecret), time.Hour).Verify(resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.SubjectID)
}

func TestRegisterMalformedBody(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// registerAdmin seeds an admin account and returns a token for it.
func registerAdmin(t *testing.T, server *Server, store *memory.Storage) string {
	t.Helper()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("adminpass")
	require.NoError(t, err)
	email := fmt.Sprintf("admin-%d@example.com", time.Now().UnixNano())
	require.NoError(t, store.CreateUser(context.Background(), &storage.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      true,
	}))

	rec := doJSON(t, server, "POST", "/api/users/login", "", LoginRequest{Email: email, Password: "adminpass"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	decodeBody(t, rec, &resp)
	return resp.Token
}
