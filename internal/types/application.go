package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationRequest is a job seeker's (simulated) application to a posting.
type ApplicationRequest struct {
	CoverLetter       string `json:"coverLetter,omitempty" validate:"max=10000"`
	ExpectedSalary    string `json:"expectedSalary,omitempty"`
	AvailableFrom     string `json:"availableFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ResumeFileName    string `json:"resumeFileName,omitempty"`
	ResumeContentType string `json:"resumeContentType,omitempty" validate:"omitempty,eq=application/pdf"`
}

// ApplicationReceipt acknowledges a submitted application.
type ApplicationReceipt struct {
	PostingID   string    `json:"posting_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Message     string    `json:"message"`
}
