package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/jobboard/internal/dashboard"
	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/server/middleware"
	"github.com/jonathan/jobboard/internal/wizard"
	"go.uber.org/zap"
)

// PostingFormOptions describes the create-posting wizard to clients.
type PostingFormOptions struct {
	Steps           []string    `json:"steps"`
	JobTypes        []string    `json:"job_types"`
	Skills          []string    `json:"skills"`
	DefaultCurrency string      `json:"default_currency"`
	Form            wizard.Form `json:"form"`
}

// StepValidationResponse reports a step that passed validation.
type StepValidationResponse struct {
	Step     int  `json:"step"`
	Valid    bool `json:"valid"`
	NextStep int  `json:"next_step"`
}

// handlePostingFormOptions returns the wizard steps, choices and an empty form.
func (s *Server) handlePostingFormOptions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, PostingFormOptions{
		Steps:           wizard.StepTitles,
		JobTypes:        wizard.JobTypes,
		Skills:          wizard.SkillSet,
		DefaultCurrency: wizard.DefaultCurrency,
		Form:            wizard.NewForm(),
	})
}

// decodeForm reads a wizard form body and checks it against the form schema.
func decodeForm(w http.ResponseWriter, r *http.Request) (wizard.Form, error) {
	body, err := readBody(w, r, maxPostingBody)
	if err != nil {
		return wizard.Form{}, err
	}
	if err := schemas.ValidatePostingForm(body); err != nil {
		return wizard.Form{}, err
	}

	var form wizard.Form
	if err := json.Unmarshal(body, &form); err != nil {
		return wizard.Form{}, &ErrValidation{Field: "(body)", Message: fmt.Sprintf("invalid form: %v", err)}
	}
	return form, nil
}

// handleValidatePostingStep checks the required fields of one wizard step,
// given by the step query parameter.
func (s *Server) handleValidatePostingStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.URL.Query().Get("step"))
	if err != nil || step < wizard.StepJobDetails || step > wizard.StepReview {
		s.errorResponse(w, &ErrValidation{
			Field:   "step",
			Message: fmt.Sprintf("must be between %d and %d", wizard.StepJobDetails, wizard.StepReview),
		})
		return
	}

	form, err := decodeForm(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := wizard.ValidateStep(form, step); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, StepValidationResponse{
		Step:     step,
		Valid:    true,
		NextStep: min(step+1, wizard.StepReview),
	})
}

// handleCreateEmployerPosting submits a completed wizard form as a posting
// owned by the caller.
func (s *Server) handleCreateEmployerPosting(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, &ErrInvalidCredentials{})
		return
	}

	form, err := decodeForm(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	payload, err := wizard.BuildPayload(form, identity.UserID.String())
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	created, err := s.creator.Create(r.Context(), &payload)
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to submit posting: %w", err))
		return
	}
	s.postingCreated(r.Context(), created)

	s.logger.Info("employer posting created",
		zap.String("posting_id", created.ID),
		zap.Stringer("employer_id", identity.UserID))
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleDeleteEmployerPosting removes one of the caller's postings.
func (s *Server) handleDeleteEmployerPosting(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, &ErrInvalidCredentials{})
		return
	}

	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id, identity.UserID.String()); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.loader.Invalidate(r.Context())

	s.logger.Info("employer posting deleted",
		zap.String("posting_id", id),
		zap.Stringer("employer_id", identity.UserID))
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard returns the caller's postings and summary stats.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, &ErrInvalidCredentials{})
		return
	}

	posts, err := s.store.ListByEmployer(r.Context(), identity.UserID.String())
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to list employer postings: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, dashboard.Build(posts))
}
