package model

// Role is a row of the roles table. Employees reference it by role_id.
type Role struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// RoleOptions converts roles into dropdown options.
func RoleOptions(rows []Role) []Option {
	opts := make([]Option, len(rows))
	for i, r := range rows {
		opts[i] = Option{ID: r.ID, Name: r.Name}
	}
	return opts
}
