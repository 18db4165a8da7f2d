package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "dojoportal/internal/domain/session"
)

// TestClient_Login verifies the student/coach flow: request body shape
// and normalization of the flat access_token response.
func TestClient_Login(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-s",
			"token_type":   "bearer",
			"expires_in":   7200,
			"user": map[string]any{
				"id":        "u-9",
				"role":      "student",
				"full_name": "Mele Tupou",
				"email":     "mele@example.com",
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, Options{})
	iss, err := client.Login(context.Background(), "student", Credentials{
		Email:          "mele@example.com",
		Password:       "hunter2",
		RecaptchaToken: "rc-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "mele@example.com", gotBody["email"])
	assert.Equal(t, "student", gotBody["role"])
	assert.Equal(t, "rc-1", gotBody["recaptcha_token"])

	assert.Equal(t, "tok-s", iss.Token)
	assert.Equal(t, 7200, iss.ExpiresIn)
	assert.Equal(t, "student", iss.Profile.Role)
	assert.Equal(t, "Mele Tupou", iss.Profile.FullName)
}

// TestClient_LoginSuperAdmin verifies the superadmin envelope, whose
// profile fields sit beside the token, normalizes into the same Issued.
func TestClient_LoginSuperAdmin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/superadmin/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"token":      "tok-sa",
				"token_type": "bearer",
				"expires_in": 3600,
				"id":         "a-1",
				"full_name":  "Root Admin",
				"email":      "admin@example.com",
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, Options{})
	iss, err := client.LoginSuperAdmin(context.Background(), Credentials{
		Email:    "admin@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-sa", iss.Token)
	assert.Equal(t, 3600, iss.ExpiresIn)
	assert.Equal(t, domain.RoleSuperAdmin, iss.Profile.Role)
	assert.Equal(t, "Root Admin", iss.Profile.FullName)
}

// TestClient_Login_Rejected verifies a rejection surfaces the backend's
// own message.
func TestClient_Login_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, Options{})
	_, err := client.Login(context.Background(), "student", Credentials{Email: "x", Password: "y"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}
