package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
	"go-employee-console/pkg/validator"
)

type FormStatus string

const (
	FormLoading    FormStatus = "loading"
	FormReady      FormStatus = "ready"
	FormSubmitting FormStatus = "submitting"
	FormSucceeded  FormStatus = "succeeded"
)

type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
	ModeSignup FormMode = "signup"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindPassword FieldKind = "password"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
)

// FormField is one input as rendered.
type FormField struct {
	Name     string
	Label    string
	Kind     FieldKind
	Value    string
	Required bool
	Options  []model.Option
	// Cascade marks selects whose change reloads dependent selects.
	Cascade bool
}

// Selected reports whether opt is the current value of a select.
func (f FormField) Selected(opt model.Option) bool {
	return f.Value != "" && f.Value == opt.ID.String()
}

// FormPage is the rendered state of a create or edit form.
type FormPage struct {
	Resource Resource
	Mode     FormMode
	ID       model.ID
	Title    string
	Fields   []FormField
	Status   FormStatus
	Error    string
	// Success is the flash shown after a successful submit.
	Success string
}

func (p FormPage) Submit() string {
	if p.Mode == ModeEdit {
		return "Update " + p.Resource.Name
	}
	return "Save " + p.Resource.Name
}

func title(res Resource, mode FormMode) string {
	if mode == ModeEdit {
		return "Edit " + res.Name
	}
	return "Add " + res.Name
}

// MasterFormSpec binds a typed builder to its form layout.
type MasterFormSpec[F model.Writable] struct {
	Resource Resource
	Lookups  []LookupRequest
	Load     func(ctx context.Context, md MasterData, id model.ID) (F, error)
	Fields   func(F, *Lookups) []FormField
}

// MasterForm serves create and edit for one master table.
type MasterForm[F model.Writable] struct {
	spec MasterFormSpec[F]
	md   MasterData
	log  *zap.Logger
}

func NewMasterForm[F model.Writable](spec MasterFormSpec[F], md MasterData, log *zap.Logger) *MasterForm[F] {
	if log == nil {
		log = zap.NewNop()
	}
	return &MasterForm[F]{spec: spec, md: md, log: log}
}

func (f *MasterForm[F]) Resource() Resource {
	return f.spec.Resource
}

func (f *MasterForm[F]) page(mode FormMode, id model.ID) FormPage {
	return FormPage{
		Resource: f.spec.Resource,
		Mode:     mode,
		ID:       id,
		Title:    title(f.spec.Resource, mode),
		Status:   FormReady,
	}
}

func (f *MasterForm[F]) lookups(ctx context.Context) (*Lookups, error) {
	scope := NewScope(ctx)
	defer scope.Dispose()
	var l Lookups
	if err := loadLookups(scope, f.md, &l, f.spec.Lookups); err != nil {
		return &l, err
	}
	return &l, nil
}

// Render shows input with the dropdown sources loaded.
func (f *MasterForm[F]) Render(ctx context.Context, mode FormMode, id model.ID, input F, errMsg string) FormPage {
	page := f.page(mode, id)
	l, err := f.lookups(ctx)
	if err != nil {
		f.log.Warn("form lookups failed", zap.String("resource", f.spec.Resource.Key), zap.Error(err))
		if errMsg == "" {
			errMsg = apiclient.Message(err, "Failed to load form data")
		}
	}
	page.Fields = f.spec.Fields(input, l)
	page.Error = errMsg
	return page
}

// Edit loads row id and the dropdown sources concurrently.
func (f *MasterForm[F]) Edit(ctx context.Context, id model.ID) FormPage {
	page := f.page(ModeEdit, id)
	page.Status = FormLoading

	scope := NewScope(ctx)
	defer scope.Dispose()

	var (
		input   F
		lookups Lookups
	)
	g, gctx := errgroup.WithContext(scope.Context())
	g.Go(func() error {
		v, err := f.spec.Load(gctx, f.md, id)
		if err != nil {
			return err
		}
		scope.Apply(func() { input = v })
		return nil
	})
	g.Go(func() error {
		return loadLookups(scope, f.md, &lookups, f.spec.Lookups)
	})
	err := g.Wait()
	if scope.Disposed() {
		page.Error = ErrCancelled.Error()
		return page
	}
	if err != nil {
		f.log.Warn("form load failed", zap.String("resource", f.spec.Resource.Key), zap.Error(err))
		page.Error = apiclient.Message(err, "Failed to load "+f.spec.Resource.lower())
		page.Fields = f.spec.Fields(input, &lookups)
		page.Status = FormReady
		return page
	}
	page.Fields = f.spec.Fields(input, &lookups)
	page.Status = FormReady
	return page
}

// Submit validates input and, when valid, creates or updates the row.
// Validation failures never reach the backend.
func (f *MasterForm[F]) Submit(ctx context.Context, mode FormMode, id model.ID, input F) FormPage {
	validator.TrimStrings(&input)
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return f.Render(ctx, mode, id, input, validator.FirstMessage(errs))
	}

	var err error
	if mode == ModeEdit {
		err = f.md.Update(ctx, input.Table(), id, input.Fields())
	} else {
		err = f.md.Insert(ctx, input.Table(), input.Fields(), apiclient.TagInsert)
	}
	if err != nil {
		f.log.Warn("form submit failed", zap.String("resource", f.spec.Resource.Key), zap.Error(err))
		return f.Render(ctx, mode, id, input, apiclient.Message(err, "Failed to save "+f.spec.Resource.lower()))
	}

	page := f.page(mode, id)
	page.Status = FormSucceeded
	if mode == ModeEdit {
		page.Success = f.spec.Resource.Name + " updated successfully!"
	} else {
		page.Success = f.spec.Resource.Name + " added successfully!"
	}
	return page
}
