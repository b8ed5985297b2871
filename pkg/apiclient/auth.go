package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go-employee-console/internal/model"
)

var ErrNoToken = errors.New("login response did not include a token")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for an opaque session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	raw, err := c.do(ctx, "auth.login", http.MethodPost, "/api/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Token == "" {
		return "", &Error{Status: http.StatusOK, Message: "Login failed", Err: ErrNoToken}
	}
	return resp.Token, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	_, err := c.do(ctx, "auth.register", http.MethodPost, "/api/register", req)
	return err
}
