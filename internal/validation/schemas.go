package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// StudentIDField validates the :studentId path parameter.
func StudentIDField(custom ...Predicate) Field {
	return Field{
		Name:     "studentId",
		Label:    "Student ID",
		In:       InParams,
		Required: "Student ID is required",
		Rules:    []Rule{{Tag: "student_id", Message: "Student ID is invalid"}},
		Custom:   custom,
	}
}

// NoteField validates the optional free-text note.
func NoteField() Field {
	return Field{
		Name:     "note",
		Label:    "Note",
		In:       InBody,
		Optional: true,
		Rules:    []Rule{{Tag: "max=500", Message: "Note must be at most 500 characters long"}},
	}
}

// ImageRequestSchema covers POST /bachelor/:studentId/request-image. The
// exists predicate lets an unknown student surface as 404.
func ImageRequestSchema(exists Predicate) Schema {
	var custom []Predicate
	if exists != nil {
		custom = append(custom, exists)
	}
	return Schema{
		StudentIDField(custom...),
		{
			Name:     "newImageUrl",
			Label:    "New image URL",
			In:       InBody,
			Required: "New image URL is required",
			Rules: []Rule{
				{Tag: "url", Message: "New image URL must be a valid URL"},
				{Tag: "image_url", Message: "New image URL must use http, https or ftp"},
			},
		},
		NoteField(),
	}
}

// ResolveSchema covers PUT /bachelor/approve/:studentId.
func ResolveSchema() Schema {
	return Schema{
		StudentIDField(),
		{
			Name:     "status",
			Label:    "Status",
			In:       InBody,
			Required: "Status is required",
			Rules:    []Rule{{Tag: "oneof=approved rejected", Message: "Status must be either approved or rejected"}},
		},
	}
}

// MissingInformationSchema covers POST /bachelor/:studentId/missing-information.
func MissingInformationSchema() Schema {
	return Schema{
		StudentIDField(),
		{
			Name:     "fullName",
			Label:    "Full name",
			In:       InBody,
			Required: "Full name is required",
			Rules:    []Rule{{Tag: "max=100", Message: "Full name must be at most 100 characters long"}},
		},
		{
			Name:     "email",
			Label:    "Email",
			In:       InBody,
			Required: "Email is required",
			Rules:    []Rule{{Tag: "email", Message: "Email is invalid"}},
		},
		{
			Name:     "phoneNumber",
			Label:    "Phone number",
			In:       InBody,
			Required: "Phone number is required",
			Rules:    []Rule{{Tag: "phone", Message: "Phone number is invalid"}},
		},
		NoteField(),
	}
}

// RequestListSchema covers staff listing filters.
func RequestListSchema() Schema {
	return Schema{
		statusQueryField(),
		positiveIntField("page", "Page"),
		positiveIntField("limit", "Limit"),
	}
}

// RequestExportSchema covers the staff export query.
func RequestExportSchema() Schema {
	return Schema{
		{
			Name:     "format",
			Label:    "Format",
			In:       InQuery,
			Optional: true,
			Rules:    []Rule{{Tag: "oneof=csv pdf", Message: "Format must be either csv or pdf"}},
		},
		statusQueryField(),
	}
}

// GoogleLoginSchema covers POST /user/google-login.
func GoogleLoginSchema() Schema {
	return Schema{
		{
			Name:     "googleToken",
			Label:    "Google ID Token",
			In:       InBody,
			Required: "Google ID Token is required",
		},
	}
}

func statusQueryField() Field {
	return Field{
		Name:     "status",
		Label:    "Status",
		In:       InQuery,
		Optional: true,
		Rules:    []Rule{{Tag: "oneof=pending approved rejected", Message: "Status must be one of pending, approved or rejected"}},
	}
}

func positiveIntField(name, label string) Field {
	message := fmt.Sprintf("%s must be a positive integer", label)
	positive := func(_ context.Context, value string) error {
		if n, err := strconv.Atoi(value); err != nil || n < 1 {
			return errors.New(message)
		}
		return nil
	}
	return Field{
		Name:     name,
		Label:    label,
		In:       InQuery,
		Optional: true,
		Rules:    []Rule{{Tag: "number,max=6", Message: message}},
		Custom:   []Predicate{positive},
	}
}
