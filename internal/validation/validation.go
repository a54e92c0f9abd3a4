// Package validation evaluates declarative per-field rules against a request
// shaped input, independent of the HTTP framework in use.
package validation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/MaiNhanKiet/look-up-convocation2025/pkg/errors"
)

// Location names where a field is read from.
type Location string

const (
	InParams Location = "params"
	InQuery  Location = "query"
	InBody   Location = "body"
)

var (
	studentIDPattern = regexp.MustCompile(`^[HCSQD][ESA]\d{4,6}$`)
	phonePattern     = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)\d{8}$`)
)

// Predicate is a custom check run after the tag rules of a field pass.
// Returning an *errors.Error with a status other than 422 preempts the
// aggregated validation error.
type Predicate func(ctx context.Context, value string) error

// Rule pairs a validator tag with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Field declares the checks for one named input value.
type Field struct {
	Name     string
	Label    string
	In       Location
	Optional bool
	Required string
	Rules    []Rule
	Custom   []Predicate
}

// Schema is the ordered list of fields checked for one endpoint.
type Schema []Field

// Input is the raw request data a schema is evaluated against.
type Input struct {
	Params map[string]string
	Query  map[string]string
	Body   map[string]interface{}
}

// Values holds trimmed field values that passed validation.
type Values map[string]string

// Get returns the trimmed value of the named field.
func (v Values) Get(name string) string {
	return v[name]
}

// Validator runs schemas using go-playground tag validation.
type Validator struct {
	validate *validator.Validate
}

// New constructs a Validator with the domain tags registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		return IsStudentID(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("image_url", func(fl validator.FieldLevel) bool {
		return IsImageURL(fl.Field().String())
	})
	return &Validator{validate: v}
}

// IsImageURL accepts absolute http, https and ftp URLs with a host.
func IsImageURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	default:
		return false
	}
}

// IsStudentID reports whether value is a well-formed student ID.
func IsStudentID(value string) bool {
	return studentIDPattern.MatchString(value)
}

// Run evaluates every field of the schema. All fields are checked; the first
// failure per field is recorded and failures are returned as one
// ValidationError. A preempting predicate error is returned as-is.
func (v *Validator) Run(ctx context.Context, schema Schema, input Input) (Values, error) {
	values := make(Values, len(schema))
	var details []appErrors.Detail
	var preempt error

	for _, field := range schema {
		value, msg, err := v.check(ctx, field, input)
		if err != nil {
			if preempt == nil {
				preempt = err
			}
			continue
		}
		if msg != "" {
			details = append(details, appErrors.Detail{Field: field.Name, Message: msg})
			continue
		}
		values[field.Name] = value
	}

	if preempt != nil {
		return nil, preempt
	}
	if len(details) > 0 {
		return nil, appErrors.NewValidation(details)
	}
	return values, nil
}

// check returns the cleaned value, a failure message, or a preempting error.
func (v *Validator) check(ctx context.Context, field Field, input Input) (string, string, error) {
	raw, present := lookup(field, input)
	if present && raw != nil {
		if _, ok := raw.(string); !ok {
			return "", fmt.Sprintf("%s must be a string", field.label()), nil
		}
	}

	value := ""
	if s, ok := raw.(string); ok {
		value = strings.TrimSpace(s)
	}

	if value == "" {
		if field.Optional {
			return "", "", nil
		}
		return "", field.requiredMessage(), nil
	}

	for _, rule := range field.Rules {
		if err := v.validate.Var(value, rule.Tag); err != nil {
			return "", rule.Message, nil
		}
	}

	for _, predicate := range field.Custom {
		if err := predicate(ctx, value); err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) {
				if appErr.Status != http.StatusUnprocessableEntity {
					return "", "", appErr
				}
				return "", appErr.Message, nil
			}
			return "", err.Error(), nil
		}
	}

	return value, "", nil
}

func lookup(field Field, input Input) (interface{}, bool) {
	switch field.In {
	case InParams:
		value, ok := input.Params[field.Name]
		return value, ok
	case InQuery:
		value, ok := input.Query[field.Name]
		return value, ok
	default:
		value, ok := input.Body[field.Name]
		return value, ok
	}
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) requiredMessage() string {
	if f.Required != "" {
		return f.Required
	}
	return fmt.Sprintf("%s is required", f.label())
}
