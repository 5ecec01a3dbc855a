// Package validation provides the pure validation functions used by the
// booking forms. They are built on go-playground/validator struct tags and
// translate failures into form.Errors keyed by field path.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Shivanand-hulikatti/flight-booking/internal/form"
)

const dateLayout = "2006-01-02"

var (
	phoneRe      = regexp.MustCompile(`^\+?[0-9\s]{8,15}$`)
	phoneStripRe = regexp.MustCompile(`[\s()\-]`)
	cardRe       = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvcRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// Messages maps "field.tag" (field by its form name) to the message shown
// for that failure.
type Messages map[string]string

// Validator holds a configured validator and the clock used by date rules.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New builds a Validator. A nil clock means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// Registration only fails on an empty tag or nil func.
	_ = val.v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(phoneStripRe.ReplaceAllString(fl.Field().String(), ""))
	})
	_ = val.v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return cardRe.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
	})
	_ = val.v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("cvc", func(fl validator.FieldLevel) bool {
		return cvcRe.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil && d.After(val.now())
	})
	return val
}

// Struct validates s and converts the failures to form errors. Each field
// reports its first failing rule only.
func (val *Validator) Struct(s any, msgs Messages) form.Errors {
	errs := form.Errors{}
	err := val.v.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable when s is not a struct, which is a programming error.
		panic(err)
	}
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, seen := errs[path]; seen {
			continue
		}
		errs[path] = message(fe, msgs)
	}
	return errs
}

// fieldPath drops the struct type name validator puts at the front of a
// namespace: "LoginValues.email" -> "email".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError, msgs Messages) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required", "required_if":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email address"
	}
	return fe.Field() + " is invalid"
}
