package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists the fields that block a step, keyed by field name.
type ValidationError struct {
	Step   int
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("step %d (%s) is incomplete: %s", e.Step, stepTitle(e.Step), strings.Join(parts, "; "))
}

// Per-step required fields. Values are trimmed before validation.
type jobDetailsStep struct {
	Profile  string `json:"profile" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Location string `json:"location" validate:"required"`
}

type requirementsStep struct {
	Exp   string   `json:"exp" validate:"required,number"`
	Techs []string `json:"techs" validate:"min=1"`
	Desc  string   `json:"desc" validate:"required"`
}

type companyInfoStep struct {
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

var messages = map[string]string{
	"profile.required":      "Job title is required",
	"company.required":      "Company name is required",
	"location.required":     "Location is required",
	"exp.required":          "Experience is required",
	"exp.number":            "Experience must be a whole number",
	"techs.min":             "At least one skill is required",
	"desc.required":         "Job description is required",
	"contactEmail.required": "Contact email is required",
	"contactEmail.email":    "Contact email must be a valid email address",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStep checks the required fields of one step.
func ValidateStep(form Form, step int) error {
	var target any
	switch step {
	case StepJobDetails:
		target = jobDetailsStep{
			Profile:  strings.TrimSpace(form.Profile),
			Company:  strings.TrimSpace(form.Company),
			Location: strings.TrimSpace(form.Location),
		}
	case StepRequirements:
		target = requirementsStep{
			Exp:   strings.TrimSpace(form.Exp),
			Techs: form.Techs,
			Desc:  strings.TrimSpace(form.Desc),
		}
	case StepCompanyInfo:
		target = companyInfoStep{ContactEmail: strings.TrimSpace(form.ContactEmail)}
	default:
		return nil
	}

	if err := validate.Struct(target); err != nil {
		return toValidationError(step, err)
	}
	return nil
}

// ValidateForm checks every step in order and reports the first one that fails.
func ValidateForm(form Form) error {
	for step := StepJobDetails; step <= StepReview; step++ {
		if err := ValidateStep(form, step); err != nil {
			return err
		}
	}
	return nil
}

func toValidationError(step int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Step: step, Fields: fields}
}

func stepTitle(step int) string {
	if step < 0 || step >= len(StepTitles) {
		return "unknown"
	}
	return StepTitles[step]
}
