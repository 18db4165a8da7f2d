package backend

import (
	"context"
	"net/http"

	domain "dojoportal/internal/domain/session"
)

// Credentials carries a login attempt.
type Credentials struct {
	Email          string
	Password       string
	RecaptchaToken string
}

// loginRequest is the student/coach login body.
type loginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	RecaptchaToken string `json:"recaptcha_token,omitempty"`
}

// loginResponse is the student/coach login result.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID       string `json:"id"`
		Role     string `json:"role"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	} `json:"user"`
}

// superAdminLoginRequest is the superadmin login body.
type superAdminLoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token,omitempty"`
}

// superAdminLoginResponse is the superadmin login envelope. The profile
// fields sit beside the token instead of under a user object.
type superAdminLoginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresIn int    `json:"expires_in"`
		ID        string `json:"id"`
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"data"`
}

// Login authenticates a student or coach against POST /auth/login and
// normalizes the result.
// PRE: role is student or coach
// POST: Issued carries the credential, validity duration, and profile
func (c *Client) Login(ctx context.Context, role string, creds Credentials) (domain.Issued, error) {
	body := loginRequest{
		Email:          creds.Email,
		Password:       creds.Password,
		Role:           role,
		RecaptchaToken: creds.RecaptchaToken,
	}
	var resp loginResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return domain.Issued{}, err
	}
	return domain.Issued{
		Token:     resp.AccessToken,
		TokenType: resp.TokenType,
		ExpiresIn: resp.ExpiresIn,
		Profile: domain.Profile{
			ID:       resp.User.ID,
			Role:     resp.User.Role,
			FullName: resp.User.FullName,
			Email:    resp.User.Email,
			Phone:    resp.User.Phone,
		},
	}, nil
}

// LoginSuperAdmin authenticates against POST /superadmin/login and
// normalizes its differently shaped envelope into the same Issued form.
func (c *Client) LoginSuperAdmin(ctx context.Context, creds Credentials) (domain.Issued, error) {
	body := superAdminLoginRequest{
		Email:          creds.Email,
		Password:       creds.Password,
		RecaptchaToken: creds.RecaptchaToken,
	}
	var resp superAdminLoginResponse
	if err := c.send(ctx, http.MethodPost, "/superadmin/login", "", body, &resp); err != nil {
		return domain.Issued{}, err
	}
	return domain.Issued{
		Token:     resp.Data.Token,
		TokenType: resp.Data.TokenType,
		ExpiresIn: resp.Data.ExpiresIn,
		Profile: domain.Profile{
			ID:       resp.Data.ID,
			Role:     domain.RoleSuperAdmin,
			FullName: resp.Data.FullName,
			Email:    resp.Data.Email,
			Phone:    resp.Data.Phone,
		},
	}, nil
}
