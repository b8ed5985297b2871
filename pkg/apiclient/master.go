package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go-employee-console/internal/model"
)

// InsertTag decides whether Insert adds action:"insert" to the payload.
// The zero value is invalid, so every call site names its choice.
type InsertTag int

const (
	// TagOmit sends no action key.
	TagOmit InsertTag = iota + 1
	// TagInsert sends action:"insert".
	TagInsert
)

var ErrInsertTag = errors.New("insert tag must be TagOmit or TagInsert")

func payload(table model.Table, fields model.Fields) map[string]any {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["table_name"] = table.String()
	return body
}

func checkTable(table model.Table) error {
	if !table.Valid() {
		return &Error{Message: fmt.Sprintf("unknown table %q", table), Err: model.ErrUnknownTable}
	}
	return nil
}

// List returns the rows of table matching filters. A response whose data is
// not an array yields an empty slice.
func (c *Client) List(ctx context.Context, table model.Table, filters model.Fields) ([]json.RawMessage, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, "master.list", http.MethodPost, "/api/master/data-filter", payload(table, filters))
	if err != nil {
		return nil, err
	}
	data, ok := decodeField(raw, "data")
	if !ok {
		return []json.RawMessage{}, nil
	}
	items := decodeArray(data)
	if items == nil {
		return []json.RawMessage{}, nil
	}
	return items, nil
}

// Show returns the single row id of table.
func (c *Client) Show(ctx context.Context, table model.Table, id model.ID) (json.RawMessage, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/api/master/show/%d?table_name=%s", id, url.QueryEscape(table.String()))
	raw, err := c.do(ctx, "master.show", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	data, ok := decodeField(raw, "data")
	if !ok || string(data) == "null" {
		return nil, &Error{Status: http.StatusOK, Message: "record not found"}
	}
	return data, nil
}

// Insert creates a row in table.
func (c *Client) Insert(ctx context.Context, table model.Table, fields model.Fields, tag InsertTag) error {
	if err := checkTable(table); err != nil {
		return err
	}
	body := payload(table, fields)
	switch tag {
	case TagInsert:
		body["action"] = "insert"
	case TagOmit:
	default:
		return &Error{Message: ErrInsertTag.Error(), Err: ErrInsertTag}
	}
	_, err := c.do(ctx, "master.insert", http.MethodPost, "/api/master", body)
	return err
}

// Update overwrites fields of row id in table.
func (c *Client) Update(ctx context.Context, table model.Table, id model.ID, fields model.Fields) error {
	if err := checkTable(table); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/master/update/%d", id)
	_, err := c.do(ctx, "master.update", http.MethodPut, path, payload(table, fields))
	return err
}

// Destroy deletes row id from table.
func (c *Client) Destroy(ctx context.Context, table model.Table, id model.ID) error {
	if err := checkTable(table); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/master/destroy/%d", id)
	_, err := c.do(ctx, "master.destroy", http.MethodDelete, path, payload(table, nil))
	return err
}

// InsertRecord is Insert for a typed builder.
func (c *Client) InsertRecord(ctx context.Context, w model.Writable, tag InsertTag) error {
	return c.Insert(ctx, w.Table(), w.Fields(), tag)
}

// UpdateRecord is Update for a typed builder.
func (c *Client) UpdateRecord(ctx context.Context, id model.ID, w model.Writable) error {
	return c.Update(ctx, w.Table(), id, w.Fields())
}
