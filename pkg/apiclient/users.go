package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go-employee-console/internal/model"
)

// ListUsers accepts either {users:[...]} or a bare array. Any other shape
// yields an empty slice.
func (c *Client) ListUsers(ctx context.Context) ([]model.Employee, error) {
	raw, err := c.do(ctx, "users.list", http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	items := decodeArray(raw)
	if items == nil {
		if nested, ok := decodeField(raw, "users"); ok {
			items = decodeArray(nested)
		}
	}
	users := make([]model.Employee, 0, len(items))
	for _, item := range items {
		var e model.Employee
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		users = append(users, e)
	}
	return users, nil
}

// GetUser loads one user.
func (c *Client) GetUser(ctx context.Context, id model.ID) (model.Employee, error) {
	raw, err := c.do(ctx, "users.get", http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	if err != nil {
		return model.Employee{}, err
	}
	var resp struct {
		User *model.Employee `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.User == nil {
		return model.Employee{}, &Error{Status: http.StatusOK, Message: "Failed to load employee data"}
	}
	return *resp.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, req model.EmployeeUpdate) error {
	_, err := c.do(ctx, "users.update", http.MethodPut, fmt.Sprintf("/api/users/%d", id), req)
	return err
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	_, err := c.do(ctx, "users.delete", http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	return err
}
