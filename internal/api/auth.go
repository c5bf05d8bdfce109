package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// AuthFailure is the typed result of a failed sign-in or registration.
// Auth calls return this instead of an error so forms can render
// field-level feedback without exception handling.
type AuthFailure struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// AuthResult carries either a session or a failure, never both.
type AuthResult struct {
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
	Failure *AuthFailure
}

func (r AuthResult) OK() bool { return r.Failure == nil }

func failure(code, message string) AuthResult {
	return AuthResult{Failure: &AuthFailure{Code: code, Message: message}}
}

// authFailureFromBody maps an error response onto an AuthFailure. The
// server answers either {error, message, field} or {detail: ...}.
func authFailureFromBody(status int, body []byte, fallback string) *AuthFailure {
	var f AuthFailure
	if err := json.Unmarshal(body, &f); err == nil && f.Code != "" {
		if f.Message == "" {
			f.Message = fallback
		}
		return &f
	}
	apiErr := parseAPIError(status, body)
	f = AuthFailure{Code: "auth_failed", Message: apiErr.Detail}
	if msg, ok := apiErr.FieldMessage("email"); ok {
		f.Field, f.Message = "email", msg
	} else if msg, ok := apiErr.FieldMessage("password"); ok {
		f.Field, f.Message = "password", msg
	}
	return &f
}

// SignIn exchanges credentials for a bearer token.
func (c *Client) SignIn(ctx context.Context, creds model.Credentials) AuthResult {
	if err := creds.Validate(); err != nil {
		return failure("validation_error", model.FriendlyValidationMessage(err))
	}

	status, b, err := c.do(ctx, http.MethodPost, "/auth/signin", "", creds)
	if err != nil {
		return failure("network_error", "Could not connect to server. Please try again.")
	}
	if status >= http.StatusBadRequest {
		return AuthResult{Failure: authFailureFromBody(status, b, "Invalid credentials")}
	}

	var res AuthResult
	if err := json.Unmarshal(b, &res); err != nil || res.Token == "" {
		return failure("auth_failed", "Unexpected response from server")
	}
	return res
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, reg model.Registration) AuthResult {
	if err := reg.Validate(); err != nil {
		return failure("validation_error", model.FriendlyValidationMessage(err))
	}

	status, b, err := c.do(ctx, http.MethodPost, "/auth/signup", "", reg)
	if err != nil {
		return failure("network_error", "Could not connect to server. Please try again.")
	}
	if status >= http.StatusBadRequest {
		return AuthResult{Failure: authFailureFromBody(status, b, "Unable to create account")}
	}

	var res AuthResult
	if err := json.Unmarshal(b, &res); err != nil || res.Token == "" {
		return failure("auth_failed", "Unexpected response from server")
	}
	return res
}

func (c *Client) Profile(ctx context.Context, token string) (model.User, error) {
	var out model.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", token, nil, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	in := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", "", in, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, verificationToken string) error {
	in := map[string]string{"token": verificationToken}
	return c.doJSON(ctx, http.MethodPost, "/auth/verify-email", "", in, nil)
}

// CheckEmail probes registration availability. Deliberately fail-open: any
// failure of the probe itself reports the address as available so the
// check can never block a registration.
func (c *Client) CheckEmail(ctx context.Context, email string) bool {
	var out struct {
		Available bool `json:"available"`
	}
	path := "/auth/check-email?email=" + url.QueryEscape(email)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return true
	}
	return out.Available
}
