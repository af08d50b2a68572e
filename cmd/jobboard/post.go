package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	postFormFile   string
	postFields     []string
	postSkills     []string
	postSalaryMin  string
	postSalaryMax  string
	postCurrency   string
	postEmployerID string
	postDryRun     bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish a job posting from a form file",
	Long: `Fill the create-posting wizard from a JSON form file and/or flags, walk
it step by step, build the posting payload and submit it to the backend. Unset
form fields keep the wizard defaults (Full-time, USD). The first incomplete
step stops the command with its missing fields. With --dry-run the payload is
printed but not submitted.`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVarP(&postFormFile, "form", "f", "", "Path to a posting form JSON file")
	postCmd.Flags().StringArrayVar(&postFields, "set", nil, "Set a form field, name=value (repeatable)")
	postCmd.Flags().StringSliceVar(&postSkills, "skill", nil, "Toggle a skill on the form (repeatable)")
	postCmd.Flags().StringVar(&postSalaryMin, "salary-min", "", "Minimum salary")
	postCmd.Flags().StringVar(&postSalaryMax, "salary-max", "", "Maximum salary")
	postCmd.Flags().StringVar(&postCurrency, "currency", "", "Salary currency")
	postCmd.Flags().StringVar(&postEmployerID, "employer-id", "", "Employer id stamped on the posting (default from config)")
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "Validate and print the posting without submitting it")

	rootCmd.AddCommand(postCmd)
}

// readForm loads a wizard form file over the wizard defaults.
func readForm(path string) (wizard.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wizard.Form{}, fmt.Errorf("failed to read form: %w", err)
	}
	if err := schemas.ValidatePostingForm(data); err != nil {
		return wizard.Form{}, err
	}

	form := wizard.NewForm()
	if err := json.Unmarshal(data, &form); err != nil {
		return wizard.Form{}, fmt.Errorf("failed to parse form: %w", err)
	}
	return form, nil
}

// newPostWizard builds the draft from the form file, then applies the flags.
func newPostWizard(cmd *cobra.Command) (*wizard.Wizard, error) {
	w := wizard.New()
	if postFormFile != "" {
		form, err := readForm(postFormFile)
		if err != nil {
			return nil, err
		}
		w = wizard.Resume(form)
	}

	for _, field := range postFields {
		name, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("--set expects name=value, got %q", field)
		}
		if err := w.SetField(strings.TrimSpace(name), value); err != nil {
			return nil, err
		}
	}
	for _, skill := range postSkills {
		w.ToggleSkill(skill)
	}

	flags := cmd.Flags()
	if flags.Changed("salary-min") || flags.Changed("salary-max") || flags.Changed("currency") {
		salary := w.Form().Salary
		if flags.Changed("salary-min") {
			salary.Min = postSalaryMin
		}
		if flags.Changed("salary-max") {
			salary.Max = postSalaryMax
		}
		w.SetSalaryRange(salary.Min, salary.Max, postCurrency)
	}
	return w, nil
}

// walkSteps advances the wizard to the review step, reporting each step.
func walkSteps(out io.Writer, w *wizard.Wizard) error {
	for w.Step() < wizard.StepReview {
		title := w.StepTitle()
		if err := w.Next(); err != nil {
			fmt.Fprintf(out, "✗ %s\n", title)
			return err
		}
		fmt.Fprintf(out, "✓ %s\n", title)
	}
	return nil
}

func runPost(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	w, err := newPostWizard(cmd)
	if err != nil {
		return err
	}
	if err := walkSteps(cmd.OutOrStdout(), w); err != nil {
		return err
	}

	employerID := s.EmployerID
	if cmd.Flags().Changed("employer-id") {
		employerID = postEmployerID
	}
	payload, err := w.Submit(employerID)
	if err != nil {
		return err
	}

	if postDryRun {
		s.printer.PrintPosting("POSTING (DRY RUN)", &payload)
		return nil
	}

	client, err := s.newClient()
	if err != nil {
		return err
	}
	created, err := client.Create(cmd.Context(), &payload)
	if err != nil {
		return fmt.Errorf("failed to create posting: %w", err)
	}

	s.printer.PrintPosting("POSTING CREATED", created)
	return nil
}
