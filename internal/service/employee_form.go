package service

import (
	"context"

	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
	"go-employee-console/pkg/validator"
)

// Dependent selects of the employee form.
const (
	FieldCountry = "country_id"
	FieldState   = "state_id"
)

// Cascade clears the selections that depend on the changed select.
func Cascade(changed string, stateID, cityID *model.ID) {
	switch changed {
	case FieldCountry:
		*stateID = 0
		*cityID = 0
	case FieldState:
		*cityID = 0
	}
}

type employeeValues struct {
	FName, LName, Email, Mobile, Note  string
	RoleID, CountryID, StateID, CityID model.ID
}

func registerValues(r model.RegisterRequest) employeeValues {
	return employeeValues{r.FName, r.LName, r.Email, r.Mobile, r.Note, r.RoleID, r.CountryID, r.StateID, r.CityID}
}

func updateValues(u model.EmployeeUpdate) employeeValues {
	return employeeValues{u.FName, u.LName, u.Email, u.Mobile, u.Note, u.RoleID, u.CountryID, u.StateID, u.CityID}
}

// EmployeeForm serves employee create, employee edit and public signup.
type EmployeeForm struct {
	backend Backend
	log     *zap.Logger
}

func NewEmployeeForm(backend Backend, log *zap.Logger) *EmployeeForm {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmployeeForm{backend: backend, log: log}
}

// dependentLookups requests states only once a country is chosen and cities
// only once a state is chosen, each filtered by its parent.
func dependentLookups(v employeeValues) []LookupRequest {
	reqs := All(model.TableRoles, model.TableCountries)
	if !v.CountryID.IsZero() {
		reqs = append(reqs, LookupRequest{Table: model.TableStates, Filters: model.Fields{FieldCountry: int64(v.CountryID)}})
	}
	if !v.StateID.IsZero() {
		reqs = append(reqs, LookupRequest{Table: model.TableCities, Filters: model.Fields{FieldState: int64(v.StateID)}})
	}
	return reqs
}

func (f *EmployeeForm) render(ctx context.Context, mode FormMode, id model.ID, v employeeValues, errMsg string) FormPage {
	page := FormPage{
		Resource: EmployeeResource,
		Mode:     mode,
		ID:       id,
		Title:    title(EmployeeResource, mode),
		Status:   FormReady,
	}
	if mode == ModeSignup {
		page.Title = "Sign Up"
	}

	scope := NewScope(ctx)
	defer scope.Dispose()
	var l Lookups
	if err := loadLookups(scope, f.backend, &l, dependentLookups(v)); err != nil {
		f.log.Warn("employee form lookups failed", zap.Error(err))
		if errMsg == "" {
			errMsg = apiclient.Message(err, "Failed to load form data")
		}
	}

	creating := mode != ModeEdit
	page.Fields = []FormField{
		{Name: "f_name", Label: "First name", Kind: KindText, Value: v.FName, Required: true},
		{Name: "l_name", Label: "Last name", Kind: KindText, Value: v.LName, Required: true},
		{Name: "email", Label: "Email", Kind: KindEmail, Value: v.Email, Required: true},
		{Name: "mobile", Label: "Mobile", Kind: KindText, Value: v.Mobile, Required: mode == ModeCreate},
		{Name: "role_id", Label: "Role", Kind: KindSelect, Value: idValue(v.RoleID), Required: mode == ModeCreate,
			Options: model.RoleOptions(l.Roles)},
		{Name: FieldCountry, Label: "Country", Kind: KindSelect, Value: idValue(v.CountryID), Cascade: true,
			Options: model.CountryOptions(l.Countries)},
		{Name: FieldState, Label: "State", Kind: KindSelect, Value: idValue(v.StateID), Cascade: true,
			Options: model.StateOptions(l.States)},
		{Name: "city_id", Label: "City", Kind: KindSelect, Value: idValue(v.CityID),
			Options: model.CityOptions(l.Cities)},
		{Name: "note", Label: "Note", Kind: KindTextarea, Value: v.Note},
	}
	if creating {
		page.Fields = append(page.Fields,
			FormField{Name: "password", Label: "Password", Kind: KindPassword, Required: true},
			FormField{Name: "password_confirmation", Label: "Confirm password", Kind: KindPassword, Required: true},
		)
	}
	page.Error = errMsg
	return page
}

// RenderCreate shows the create or signup form.
func (f *EmployeeForm) RenderCreate(ctx context.Context, mode FormMode, req model.RegisterRequest, errMsg string) FormPage {
	return f.render(ctx, mode, 0, registerValues(req), errMsg)
}

// ChangeCreate applies a dependent-select change and re-renders.
func (f *EmployeeForm) ChangeCreate(ctx context.Context, mode FormMode, req model.RegisterRequest, changed string) FormPage {
	Cascade(changed, &req.StateID, &req.CityID)
	return f.RenderCreate(ctx, mode, req, "")
}

// SubmitCreate registers the account. Signup does not require mobile or role.
func (f *EmployeeForm) SubmitCreate(ctx context.Context, mode FormMode, req model.RegisterRequest) FormPage {
	validator.TrimStrings(&req)
	var errs []*validator.ErrorResponse
	if mode == ModeSignup {
		errs = validator.ValidateStructExcept(req, model.SignupOptional...)
	} else {
		errs = validator.ValidateStruct(req)
	}
	if len(errs) > 0 {
		return f.RenderCreate(ctx, mode, req, validator.FirstMessage(errs))
	}

	if err := f.backend.Register(ctx, req); err != nil {
		f.log.Warn("register failed", zap.String("mode", string(mode)), zap.Error(err))
		fallback := "Failed to add employee"
		if mode == ModeSignup {
			fallback = "Registration failed!"
		}
		return f.RenderCreate(ctx, mode, req, apiclient.Message(err, fallback))
	}

	page := FormPage{Resource: EmployeeResource, Mode: mode, Status: FormSucceeded}
	if mode == ModeSignup {
		page.Success = "User registered successfully!"
	} else {
		page.Success = "Employee added successfully!"
	}
	return page
}

// Edit loads the employee, then the dropdowns its selections depend on.
func (f *EmployeeForm) Edit(ctx context.Context, id model.ID) FormPage {
	e, err := f.backend.GetUser(ctx, id)
	if err != nil {
		f.log.Warn("load employee failed", zap.Int64("id", int64(id)), zap.Error(err))
		return f.render(ctx, ModeEdit, id, employeeValues{}, "Failed to load employee data")
	}
	return f.render(ctx, ModeEdit, id, updateValues(e.UpdateForm()), "")
}

func (f *EmployeeForm) RenderEdit(ctx context.Context, id model.ID, upd model.EmployeeUpdate, errMsg string) FormPage {
	return f.render(ctx, ModeEdit, id, updateValues(upd), errMsg)
}

func (f *EmployeeForm) ChangeEdit(ctx context.Context, id model.ID, upd model.EmployeeUpdate, changed string) FormPage {
	Cascade(changed, &upd.StateID, &upd.CityID)
	return f.RenderEdit(ctx, id, upd, "")
}

func (f *EmployeeForm) SubmitEdit(ctx context.Context, id model.ID, upd model.EmployeeUpdate) FormPage {
	validator.TrimStrings(&upd)
	if errs := validator.ValidateStruct(upd); len(errs) > 0 {
		return f.RenderEdit(ctx, id, upd, validator.FirstMessage(errs))
	}
	if err := f.backend.UpdateUser(ctx, id, upd); err != nil {
		f.log.Warn("update employee failed", zap.Int64("id", int64(id)), zap.Error(err))
		return f.RenderEdit(ctx, id, upd, apiclient.Message(err, "Error updating employee"))
	}
	return FormPage{Resource: EmployeeResource, Mode: ModeEdit, ID: id, Status: FormSucceeded,
		Success: "Employee updated successfully!"}
}
