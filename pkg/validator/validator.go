package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type ErrorResponse struct {
	FailedField string
	Label       string
	Tag         string
	Value       string
	ParamLabel  string
}

// Message renders the failure as text an operator can act on.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required", "notblank":
		return e.Label + " is required"
	case "email":
		return e.Label + " must be a valid email address"
	case "eqfield":
		if e.ParamLabel != "" {
			return e.Label + " does not match " + e.ParamLabel
		}
		return e.Label + " does not match"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Label, e.Value)
	default:
		return fmt.Sprintf("%s is invalid (%s)", e.Label, e.Tag)
	}
}

var validate = validator.New()

func init() {
	// Report fields by their label tag so messages read naturally.
	validate.RegisterTagNameFunc(labelOf)
	// notblank rejects whitespace-only values on fields that are not trimmed.
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

func labelOf(fld reflect.StructField) string {
	if label := fld.Tag.Get("label"); label != "" {
		return label
	}
	return fld.Name
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	return collect(data, validate.Struct(data))
}

// ValidateStructExcept validates data while skipping the named struct fields.
func ValidateStructExcept(data interface{}, fields ...string) []*ErrorResponse {
	return collect(data, validate.StructExcept(data, fields...))
}

func collect(data interface{}, err error) []*ErrorResponse {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "", Label: "Form", Tag: err.Error()}}
	}
	var errs []*ErrorResponse
	for _, fe := range verrs {
		element := ErrorResponse{
			FailedField: fe.StructNamespace(),
			Label:       fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		}
		if fe.Tag() == "eqfield" {
			element.ParamLabel = fieldLabel(data, fe.Param())
		}
		errs = append(errs, &element)
	}
	return errs
}

func fieldLabel(data interface{}, name string) string {
	t := reflect.TypeOf(data)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return name
	}
	if f, ok := t.FieldByName(name); ok {
		return labelOf(f)
	}
	return name
}

// FirstMessage returns the message of the first failure, or "" when errs is empty.
func FirstMessage(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message()
}

// TrimStrings trims surrounding whitespace from every exported string field
// of the struct ptr points to. Fields tagged trim:"-" are left untouched.
func TrimStrings(ptr interface{}) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("trim") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Struct:
			if f.CanAddr() {
				TrimStrings(f.Addr().Interface())
			}
		}
	}
}
