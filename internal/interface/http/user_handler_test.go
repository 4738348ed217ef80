package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupViaAPI(t *testing.T, h *apiHarness, name, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, "image", "avatar.png", []byte("pngdata"))

	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", body)
	req.Header.Set("Content-Type", contentType)
	return h.do(req)
}

func TestUserAPI_Signup(t *testing.T) {
	h := newAPIHarness(t)

	w := signupViaAPI(t, h, "Anna", "anna@example.com", "secret")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
			Token  string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.UserID)
	assert.Equal(t, "anna@example.com", resp.Data.Email)
	assert.NotEmpty(t, resp.Data.Token)

	claims, err := h.jwt.Parse(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.UserID, claims.UserID)
}

func TestUserAPI_Signup_Validation(t *testing.T) {
	h := newAPIHarness(t)

	tests := []struct {
		name   string
		fields map[string]string
		field  string
	}{
		{"short password", map[string]string{"name": "A", "email": "a@example.com", "password": "abcd"}, "password"},
		{"bad email", map[string]string{"name": "A", "email": "not-an-email", "password": "secret"}, "email"},
		{"missing name", map[string]string{"email": "a@example.com", "password": "secret"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields, "image", "avatar.png", []byte("x"))
			req := httptest.NewRequest(http.MethodPost, "/api/users/signup", body)
			req.Header.Set("Content-Type", contentType)
			w := h.do(req)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tt.field)
		})
	}
}

func TestUserAPI_Signup_DuplicateEmailReleasesUpload(t *testing.T) {
	h := newAPIHarness(t)

	w := signupViaAPI(t, h, "Anna", "anna@example.com", "secret")
	require.Equal(t, http.StatusCreated, w.Code)

	w = signupViaAPI(t, h, "Impostor", "anna@example.com", "different")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Len(t, h.images.uploaded, 2)
	require.Len(t, h.images.released, 1)
	assert.Equal(t, h.images.uploaded[1], h.images.released[0])
}

func TestUserAPI_Login(t *testing.T) {
	h := newAPIHarness(t)
	h.seedUser(t, "u1", "anna@example.com")

	login := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		return h.do(req)
	}

	t.Run("valid credentials", func(t *testing.T) {
		w := login(`{"email":"anna@example.com","password":"secret"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"token"`)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		w1 := login(`{"email":"anna@example.com","password":"wrong"}`)
		w2 := login(`{"email":"nobody@example.com","password":"secret"}`)
		assert.Equal(t, http.StatusUnauthorized, w1.Code)
		assert.Equal(t, http.StatusUnauthorized, w2.Code)

		var b1, b2 map[string]any
		require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &b1))
		require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &b2))
		assert.Equal(t, b1["message"], b2["message"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := login(`{"email":"anna@example.com"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestUserAPI_List_OmitsPasswordHash(t *testing.T) {
	h := newAPIHarness(t)
	h.seedUser(t, "u1", "anna@example.com")

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anna@example.com")
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}
