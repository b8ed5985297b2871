package service

import (
	"context"
	"encoding/json"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
)

// MasterData is the generic table client the views depend on.
type MasterData interface {
	List(ctx context.Context, table model.Table, filters model.Fields) ([]json.RawMessage, error)
	Show(ctx context.Context, table model.Table, id model.ID) (json.RawMessage, error)
	Insert(ctx context.Context, table model.Table, fields model.Fields, tag apiclient.InsertTag) error
	Update(ctx context.Context, table model.Table, id model.ID, fields model.Fields) error
	Destroy(ctx context.Context, table model.Table, id model.ID) error
}

// Users covers the /api/users family.
type Users interface {
	ListUsers(ctx context.Context) ([]model.Employee, error)
	GetUser(ctx context.Context, id model.ID) (model.Employee, error)
	UpdateUser(ctx context.Context, id model.ID, req model.EmployeeUpdate) error
	DeleteUser(ctx context.Context, id model.ID) error
}

// Accounts covers login and registration.
type Accounts interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req model.RegisterRequest) error
}

// Backend is everything the console needs from the remote API.
type Backend interface {
	MasterData
	Users
	Accounts
}

var _ Backend = (*apiclient.Client)(nil)

// listAs lists table and decodes each row into T. Rows that do not decode are skipped.
func listAs[T any](ctx context.Context, md MasterData, table model.Table, filters model.Fields) ([]T, error) {
	raws, err := md.List(ctx, table, filters)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func showAs[T any](ctx context.Context, md MasterData, table model.Table, id model.ID) (T, error) {
	var v T
	raw, err := md.Show(ctx, table, id)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &apiclient.Error{Message: "unexpected response shape", Err: err}
	}
	return v, nil
}
