package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/validator"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries the first failed rule of a record.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// masterTable describes one table served by the generic master endpoints.
type masterTable struct {
	row     func() any
	rows    func() any
	columns []string
	// upsert, when set, makes inserts replace the row with the same value
	// in this column.
	upsert string
}

var masterTables = map[model.Table]masterTable{
	model.TableCountries: {
		row:     func() any { return &Country{} },
		rows:    func() any { return &[]Country{} },
		columns: []string{"name", "note"},
	},
	model.TableStates: {
		row:     func() any { return &State{} },
		rows:    func() any { return &[]State{} },
		columns: []string{"name", "note", "country_id"},
	},
	model.TableCities: {
		row:     func() any { return &City{} },
		rows:    func() any { return &[]City{} },
		columns: []string{"name", "note", "state_id"},
	},
	model.TableRoles: {
		row:     func() any { return &Role{} },
		rows:    func() any { return &[]Role{} },
		columns: []string{"name"},
	},
	model.TableSettings: {
		row:     func() any { return &Setting{} },
		rows:    func() any { return &[]Setting{} },
		columns: []string{"key", "value"},
		upsert:  "key",
	},
}

func (t masterTable) allowed(column string) bool {
	for _, c := range t.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Store is the sandbox persistence layer.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates every table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(Models()...)
}

func lookupTable(name model.Table) (masterTable, error) {
	t, ok := masterTables[name]
	if !ok {
		return masterTable{}, fmt.Errorf("%w: %q", model.ErrUnknownTable, name)
	}
	return t, nil
}

// normalize turns whole JSON numbers into integers so drivers bind them to
// integer columns.
func normalize(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

func (t masterTable) columnsOf(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if !t.allowed(k) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, k)
		}
		out[k] = normalize(v)
	}
	return out, nil
}

// overlay decodes fields onto row through their json names.
func overlay(row any, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, row)
}

func validate(row any) error {
	if errs := validator.ValidateStruct(row); len(errs) > 0 {
		return &ValidationError{Message: validator.FirstMessage(errs)}
	}
	return nil
}

// Filter lists rows of table whose columns equal filters, ordered by id.
func (s *Store) Filter(ctx context.Context, table model.Table, filters map[string]any) (any, error) {
	t, err := lookupTable(table)
	if err != nil {
		return nil, err
	}
	where, err := t.columnsOf(filters)
	if err != nil {
		return nil, err
	}
	rows := t.rows()
	q := s.db.WithContext(ctx).Model(t.row()).Order("id")
	if len(where) > 0 {
		q = q.Where(where)
	}
	if err := q.Find(rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) find(ctx context.Context, t masterTable, id uint) (any, error) {
	row := t.row()
	if err := s.db.WithContext(ctx).First(row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

func (s *Store) Show(ctx context.Context, table model.Table, id uint) (any, error) {
	t, err := lookupTable(table)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, t, id)
}

// Insert creates a row from fields.
func (s *Store) Insert(ctx context.Context, table model.Table, fields map[string]any) (any, error) {
	t, err := lookupTable(table)
	if err != nil {
		return nil, err
	}
	cols, err := t.columnsOf(fields)
	if err != nil {
		return nil, err
	}
	row := t.row()
	if err := overlay(row, cols); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := validate(row); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx)
	if t.upsert != "" {
		updates := make([]string, 0, len(t.columns))
		for _, c := range t.columns {
			if c != t.upsert {
				updates = append(updates, c)
			}
		}
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: t.upsert}},
			DoUpdates: clause.AssignmentColumns(append(updates, "updated_at", "deleted_at")),
		})
	}
	if err := q.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update overlays fields on row id.
func (s *Store) Update(ctx context.Context, table model.Table, id uint, fields map[string]any) (any, error) {
	t, err := lookupTable(table)
	if err != nil {
		return nil, err
	}
	cols, err := t.columnsOf(fields)
	if err != nil {
		return nil, err
	}
	row, err := s.find(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if err := overlay(row, cols); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := validate(row); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Store) Destroy(ctx context.Context, table model.Table, id uint) error {
	t, err := lookupTable(table)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(t.row(), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func optionalID(id model.ID) *uint {
	if id <= 0 {
		return nil
	}
	v := uint(id)
	return &v
}

// Register creates an account with a hashed password.
func (s *Store) Register(ctx context.Context, req model.RegisterRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing int64
	if err := s.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	acc := &Account{
		FName:     req.FName,
		LName:     req.LName,
		Email:     email,
		Mobile:    req.Mobile,
		Note:      req.Note,
		RoleID:    optionalID(req.RoleID),
		CountryID: optionalID(req.CountryID),
		StateID:   optionalID(req.StateID),
		CityID:    optionalID(req.CityID),
	}
	if err := acc.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(acc).Error; err != nil {
		return nil, err
	}
	return acc, nil
}

// Authenticate checks credentials and rotates the account's token version,
// which invalidates tokens issued before.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	var acc Account
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !acc.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	acc.TokenVersion = uuid.New().String()
	if err := s.db.WithContext(ctx).Model(&acc).Update("token_version", acc.TokenVersion).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

// TokenVersion returns the current token version of account userID.
func (s *Store) TokenVersion(userID uint) (string, error) {
	var acc Account
	if err := s.db.Select("id", "token_version").First(&acc, userID).Error; err != nil {
		return "", err
	}
	return acc.TokenVersion, nil
}

func (s *Store) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Role").Preload("Country").Preload("State").Preload("City")
}

func (s *Store) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := s.withRelations(ctx).Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) Account(ctx context.Context, id uint) (*Account, error) {
	var acc Account
	if err := s.withRelations(ctx).First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// UpdateAccount replaces the profile fields of account id.
func (s *Store) UpdateAccount(ctx context.Context, id uint, upd model.EmployeeUpdate) (*Account, error) {
	res := s.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(map[string]any{
		"f_name":     upd.FName,
		"l_name":     upd.LName,
		"email":      strings.ToLower(upd.Email),
		"mobile":     upd.Mobile,
		"note":       upd.Note,
		"role_id":    optionalID(upd.RoleID),
		"country_id": optionalID(upd.CountryID),
		"state_id":   optionalID(upd.StateID),
		"city_id":    optionalID(upd.CityID),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Account(ctx, id)
}

func (s *Store) DeleteAccount(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Account{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword sets a new password for email and signs out its sessions.
func (s *Store) ResetPassword(ctx context.Context, email, password string) error {
	var acc Account
	if err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := acc.SetPassword(password); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&acc).Updates(map[string]any{
		"password":      acc.Password,
		"token_version": uuid.New().String(),
	}).Error
}
