package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
)

type call struct {
	Op      string
	Table   model.Table
	ID      model.ID
	Fields  model.Fields
	Tag     apiclient.InsertTag
	Payload any
}

// fakeBackend serves canned rows per table and records every call.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	rows   map[model.Table][]any
	users  []model.Employee
	fail   map[string]error
	token  string
	filter func(table model.Table, filters model.Fields, rows []any) []any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{rows: map[model.Table][]any{}, fail: map[string]error{}}
}

func (f *fakeBackend) record(c call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if err, ok := f.fail[c.Op+":"+c.Table.String()]; ok {
		return err
	}
	if err, ok := f.fail[c.Op]; ok {
		return err
	}
	return nil
}

func (f *fakeBackend) callsOf(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBackend) List(ctx context.Context, table model.Table, filters model.Fields) ([]json.RawMessage, error) {
	if err := f.record(call{Op: "list", Table: table, Fields: filters}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	rows := f.rows[table]
	if f.filter != nil {
		rows = f.filter(table, filters, rows)
	}
	f.mu.Unlock()
	out := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		raw, _ := json.Marshal(r)
		out = append(out, raw)
	}
	return out, nil
}

func (f *fakeBackend) Show(_ context.Context, table model.Table, id model.ID) (json.RawMessage, error) {
	if err := f.record(call{Op: "show", Table: table, ID: id}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows[table] {
		raw, _ := json.Marshal(r)
		var row struct {
			ID model.ID `json:"id"`
		}
		_ = json.Unmarshal(raw, &row)
		if row.ID == id {
			return raw, nil
		}
	}
	return nil, &apiclient.Error{Status: 404, Message: "record not found"}
}

func (f *fakeBackend) Insert(_ context.Context, table model.Table, fields model.Fields, tag apiclient.InsertTag) error {
	return f.record(call{Op: "insert", Table: table, Fields: fields, Tag: tag})
}

func (f *fakeBackend) Update(_ context.Context, table model.Table, id model.ID, fields model.Fields) error {
	return f.record(call{Op: "update", Table: table, ID: id, Fields: fields})
}

func (f *fakeBackend) Destroy(_ context.Context, table model.Table, id model.ID) error {
	if err := f.record(call{Op: "destroy", Table: table, ID: id}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[table][:0:0]
	for _, r := range f.rows[table] {
		raw, _ := json.Marshal(r)
		var row struct {
			ID model.ID `json:"id"`
		}
		_ = json.Unmarshal(raw, &row)
		if row.ID != id {
			kept = append(kept, r)
		}
	}
	f.rows[table] = kept
	return nil
}

func (f *fakeBackend) ListUsers(context.Context) ([]model.Employee, error) {
	if err := f.record(call{Op: "users.list"}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Employee(nil), f.users...), nil
}

func (f *fakeBackend) GetUser(_ context.Context, id model.ID) (model.Employee, error) {
	if err := f.record(call{Op: "users.get", ID: id}); err != nil {
		return model.Employee{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.Employee{}, &apiclient.Error{Status: 404, Message: fmt.Sprintf("user %d not found", id)}
}

func (f *fakeBackend) UpdateUser(_ context.Context, id model.ID, req model.EmployeeUpdate) error {
	return f.record(call{Op: "users.update", ID: id, Payload: req})
}

func (f *fakeBackend) DeleteUser(_ context.Context, id model.ID) error {
	return f.record(call{Op: "users.delete", ID: id})
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (string, error) {
	if err := f.record(call{Op: "login", Payload: email}); err != nil {
		return "", err
	}
	return f.token, nil
}

func (f *fakeBackend) Register(_ context.Context, req model.RegisterRequest) error {
	return f.record(call{Op: "register", Payload: req})
}

var _ Backend = (*fakeBackend)(nil)
