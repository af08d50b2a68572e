package wizard

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/jonathan/jobboard/internal/types"
)

// Wizard holds a draft form and the current step. A failed Next keeps the
// step and records the offending fields; editing a field clears its error.
type Wizard struct {
	form   Form
	step   int
	errors map[string]string
}

// New starts a wizard on the first step with an empty form.
func New() *Wizard {
	return &Wizard{form: NewForm(), errors: map[string]string{}}
}

// Resume starts a wizard on the first step with a prefilled form.
func Resume(form Form) *Wizard {
	form.Techs = slices.Clone(form.Techs)
	if form.Techs == nil {
		form.Techs = []string{}
	}
	return &Wizard{form: form, errors: map[string]string{}}
}

// Step returns the current step index.
func (w *Wizard) Step() int { return w.step }

// StepTitle returns the display title of the current step.
func (w *Wizard) StepTitle() string { return stepTitle(w.step) }

// Form returns a copy of the draft.
func (w *Wizard) Form() Form {
	f := w.form
	f.Techs = slices.Clone(w.form.Techs)
	return f
}

// Errors returns a copy of the field errors from the last failed step check.
func (w *Wizard) Errors() map[string]string {
	return maps.Clone(w.errors)
}

// SetField assigns a text field by its wire name.
func (w *Wizard) SetField(name, value string) error {
	if err := w.form.set(name, value); err != nil {
		return err
	}
	delete(w.errors, name)
	return nil
}

// ToggleSkill adds the skill to the draft or removes it if present.
func (w *Wizard) ToggleSkill(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	w.form.toggleSkill(skill)
	delete(w.errors, "techs")
}

// SetSalaryRange sets the salary bounds. An empty currency keeps the current one.
func (w *Wizard) SetSalaryRange(minimum, maximum, currency string) {
	w.form.Salary.Min = minimum
	w.form.Salary.Max = maximum
	if currency != "" {
		w.form.Salary.Currency = currency
	}
}

// Next advances one step if the current step validates.
func (w *Wizard) Next() error {
	if err := ValidateStep(w.form, w.step); err != nil {
		w.recordErrors(err)
		return err
	}
	w.errors = map[string]string{}
	if w.step < StepReview {
		w.step++
	}
	return nil
}

// Back moves one step back, never below the first step.
func (w *Wizard) Back() {
	if w.step > StepJobDetails {
		w.step--
	}
}

// Submit validates the whole draft and builds the posting payload.
// On a validation failure the wizard moves to the failing step.
func (w *Wizard) Submit(employerID string) (types.JobPosting, error) {
	post, err := BuildPayload(w.form, employerID)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			w.step = verr.Step
		}
		w.recordErrors(err)
		return types.JobPosting{}, err
	}
	return post, nil
}

func (w *Wizard) recordErrors(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		w.errors = maps.Clone(verr.Fields)
	}
}
