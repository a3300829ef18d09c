package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ardu.app/feed/models"
	"ardu.app/feed/validation"
)

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	if err := validation.Register(req); err != nil {
		return models.User{}, err
	}
	var u models.User
	err := c.do(ctx, request{method: http.MethodPost, path: "/api/users/register", body: req, out: &u})
	return u, err
}

// Login authenticates and loads the result into the client's session.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if err := validation.Login(req); err != nil {
		return models.LoginResponse{}, err
	}
	var resp models.LoginResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/login", body: req, out: &resp}); err != nil {
		return models.LoginResponse{}, err
	}
	if resp.Jwt.Token == "" {
		return models.LoginResponse{}, &Error{Status: http.StatusOK, Message: "login response carried no token"}
	}
	c.session.Set(resp)
	return resp, nil
}

func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var u models.User
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", userID), auth: true, out: &u})
	return u, err
}

func (c *Client) ApproveUser(ctx context.Context, userID int64) error {
	return c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/api/admin/users/%d/approve", userID), auth: true})
}

func (c *Client) RejectUser(ctx context.Context, userID int64) error {
	return c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/api/admin/users/%d/reject", userID), auth: true})
}

// ListUsers returns accounts in the given approval status, or all of them
// when status is empty.
func (c *Client) ListUsers(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	path := "/api/users"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	var users []models.User
	err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true, out: &users})
	return users, err
}

// UpdateUser edits a profile. Validation runs locally first.
func (c *Client) UpdateUser(ctx context.Context, userID int64, req models.UserUpdateRequest) (models.User, error) {
	req, err := validation.UserUpdate(req)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	err = c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/api/users/%d", userID), body: req, auth: true, out: &u})
	return u, err
}
