// Package wizard implements the multi-step create-posting form: per-step
// required-field validation, navigation between steps, and conversion of the
// finished form into the payload submitted to the postings backend.
package wizard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/jobboard/internal/types"
)

// Wizard steps.
const (
	StepJobDetails = iota
	StepRequirements
	StepCompanyInfo
	StepReview
)

// StepTitles are the display titles of the steps, indexed by step.
var StepTitles = []string{"Job Details", "Requirements", "Company Info", "Review & Submit"}

// JobTypes are the selectable employment types.
var JobTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Freelance"}

// SkillSet is the selectable skill palette.
var SkillSet = []string{
	"JavaScript", "Java", "Python", "React", "Node.js", "Spring Boot",
	"MongoDB", "SQL", "AWS", "Docker", "Kubernetes", "Machine Learning",
	"Data Science", "DevOps", "Frontend", "Backend", "Full Stack",
	"Angular", "Vue.js", "PHP", "C#", ".NET", "Ruby", "Go", "Rust",
}

const (
	// DefaultCurrency is preselected for the salary range.
	DefaultCurrency = "USD"

	// PlaceholderEmployerID is used when a posting is built without an
	// authenticated employer.
	PlaceholderEmployerID = "temp-employer-id"
)

// SalaryRange is the structured salary input.
type SalaryRange struct {
	Min      string `json:"min"`
	Max      string `json:"max"`
	Currency string `json:"currency"`
}

// Form is the raw wizard input. Fields hold what the user typed; conversion
// happens in BuildPayload.
type Form struct {
	Profile             string      `json:"profile"`
	Company             string      `json:"company"`
	Location            string      `json:"location"`
	Type                string      `json:"type"`
	Exp                 string      `json:"exp"`
	Salary              SalaryRange `json:"salary"`
	Techs               []string    `json:"techs"`
	Desc                string      `json:"desc"`
	Requirements        string      `json:"requirements"`
	Benefits            string      `json:"benefits"`
	ContactEmail        string      `json:"contactEmail"`
	ApplicationDeadline string      `json:"applicationDeadline"`
}

// NewForm returns an empty form with the default job type and currency.
func NewForm() Form {
	return Form{
		Type:   JobTypes[0],
		Salary: SalaryRange{Currency: DefaultCurrency},
		Techs:  []string{},
	}
}

// UnknownFieldError is returned when setting a field the form does not have.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown form field: %q", e.Field)
}

// set assigns a text field by its wire name.
func (f *Form) set(name, value string) error {
	switch name {
	case "profile":
		f.Profile = value
	case "company":
		f.Company = value
	case "location":
		f.Location = value
	case "type":
		f.Type = value
	case "exp":
		f.Exp = value
	case "desc":
		f.Desc = value
	case "requirements":
		f.Requirements = value
	case "benefits":
		f.Benefits = value
	case "contactEmail":
		f.ContactEmail = value
	case "applicationDeadline":
		f.ApplicationDeadline = value
	default:
		return &UnknownFieldError{Field: name}
	}
	return nil
}

func (f *Form) toggleSkill(skill string) {
	if i := slices.Index(f.Techs, skill); i >= 0 {
		f.Techs = slices.Delete(slices.Clone(f.Techs), i, i+1)
		return
	}
	f.Techs = append(slices.Clone(f.Techs), skill)
}

// BuildPayload converts a completed form into the posting submitted to the
// backend. An empty employerID is replaced by PlaceholderEmployerID.
func BuildPayload(form Form, employerID string) (types.JobPosting, error) {
	if err := ValidateForm(form); err != nil {
		return types.JobPosting{}, err
	}

	exp, err := strconv.Atoi(strings.TrimSpace(form.Exp))
	if err != nil {
		return types.JobPosting{}, &ValidationError{
			Step:   StepRequirements,
			Fields: map[string]string{"exp": "Experience must be a whole number"},
		}
	}

	var deadline *types.Timestamp
	if raw := strings.TrimSpace(form.ApplicationDeadline); raw != "" {
		deadline, err = types.ParseTimestamp(raw)
		if err != nil {
			return types.JobPosting{}, &ValidationError{
				Step:   StepReview,
				Fields: map[string]string{"applicationDeadline": "Application deadline must be a date (YYYY-MM-DD)"},
			}
		}
	}

	if employerID == "" {
		employerID = PlaceholderEmployerID
	}
	techs := slices.Clone(form.Techs)
	if techs == nil {
		techs = []string{}
	}

	return types.JobPosting{
		Title:               strings.TrimSpace(form.Profile),
		Company:             strings.TrimSpace(form.Company),
		Location:            strings.TrimSpace(form.Location),
		Type:                form.Type,
		Experience:          exp,
		Salary:              formatSalary(form.Salary),
		Skills:              techs,
		Description:         form.Desc,
		Requirements:        form.Requirements,
		Benefits:            form.Benefits,
		ContactEmail:        strings.TrimSpace(form.ContactEmail),
		ApplicationDeadline: deadline,
		EmployerID:          employerID,
	}, nil
}

// formatSalary renders "CUR min - max" when both bounds are set.
func formatSalary(s SalaryRange) string {
	lo, hi := strings.TrimSpace(s.Min), strings.TrimSpace(s.Max)
	if lo == "" || hi == "" {
		return "Competitive"
	}
	currency := strings.TrimSpace(s.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return fmt.Sprintf("%s %s - %s", currency, lo, hi)
}
