// Package forms validates user input before it reaches the backend.
//
// Validation is tag driven (go-playground/validator) with three portal
// specific tags:
//
//	ntn           7-digit NTN or 13-digit CNIC
//	portal_email  address with a dotted domain suffix of at least 2 characters
//	otp           6-digit one-time passcode
//
// Each form declares the message shown for every field/tag pair; the first
// failing tag of a field wins.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ntnPattern   = regexp.MustCompile(`^(\d{7}|\d{13})$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,}$`)
	otpPattern   = regexp.MustCompile(`^\d{6}$`)
)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the shared validator with the portal tags registered.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their form name so messages line up with inputs.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = fld.Name
			}
			return name
		})

		registerPattern(v, "ntn", ntnPattern)
		registerPattern(v, "portal_email", emailPattern)
		registerPattern(v, "otp", otpPattern)
		engine = v
	})
	return engine
}

func registerPattern(v *validator.Validate, tag string, re *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		panic("forms: register " + tag + ": " + err.Error())
	}
}

// IsNTN reports whether s is a 7-digit NTN or a 13-digit CNIC.
func IsNTN(s string) bool { return ntnPattern.MatchString(s) }

// IsEmail reports whether s looks like a deliverable address.
func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// IsOTP reports whether s is a 6-digit passcode.
func IsOTP(s string) bool { return otpPattern.MatchString(s) }

// Messages maps "field.tag" to the text shown when that tag fails.
type Messages map[string]string

// Check validates form and translates failures through msgs. Pairs without
// a message fall back to a generic per-tag text.
func Check(form interface{}, msgs Messages) FieldErrors {
	err := Engine().Struct(form)
	if err == nil {
		return nil
	}

	out := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("form", err.Error())
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := msgs[field+"."+fe.Tag()]; ok {
			out.Add(field, msg)
			continue
		}
		out.Add(field, fallbackMessage(fe))
	}
	return out
}

func fallbackMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "portal_email":
		return "Enter a valid email address"
	case "ntn":
		return "Enter a valid 7-digit NTN or 13-digit CNIC"
	case "otp":
		return "Enter a valid 6-digit code"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

func trim(s string) string { return strings.TrimSpace(s) }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
