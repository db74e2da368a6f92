package service

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"

	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError lists every invalid field of a rejected payload.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"title":   "Title is required",
	"content": "Content is required",
	"url":     "Valid URL is required",
}

const (
	ruleRequired = "required"
	ruleURL      = "required,weburl"
)

// webSchemes are the schemes a bookmark URL may carry. A URL without a
// scheme is read as http.
var webSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

// isWebURL accepts absolute http, https and ftp URLs and scheme-less
// addresses such as "example.com/page". The host must be an IP address or
// a dotted domain name.
func isWebURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil || !webSchemes[strings.ToLower(u.Scheme)] {
		return false
	}

	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return true
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("weburl", isWebURL)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func messageFor(field string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}

// validateStruct runs the struct's validate tags and converts failures into
// a *ValidationError naming every offending field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, models.FieldError{Field: fe.Field(), Message: messageFor(fe.Field())})
	}
	return out
}

// fieldChecker accumulates per-field failures for partial updates, where only
// provided fields are validated.
type fieldChecker struct {
	fields []models.FieldError
}

func (c *fieldChecker) check(field, rules string, value any) {
	if err := validate.Var(value, rules); err != nil {
		c.fields = append(c.fields, models.FieldError{Field: field, Message: messageFor(field)})
	}
}

func (c *fieldChecker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}
