package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobboard/internal/store"
	"github.com/jonathan/jobboard/internal/types"
)

var _ store.Store = (*DB)(nil)

const postingColumns = `id, profile, company, location, type, exp, salary, techs, description,
	requirements, benefits, contact_email, application_deadline, status, applications,
	views, posted_date, employer_id`

// List returns every posting in insertion order.
func (db *DB) List(ctx context.Context) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+postingColumns+` FROM job_posts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	return collectPostings(rows)
}

// Search matches text case-insensitively against profile, company,
// description and tech tags.
func (db *DB) Search(ctx context.Context, text string) ([]types.JobPosting, error) {
	pattern := "%" + escapeLike(text) + "%"
	rows, err := db.pool.Query(ctx,
		`SELECT `+postingColumns+` FROM job_posts
		 WHERE profile ILIKE $1
		    OR company ILIKE $1
		    OR description ILIKE $1
		    OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(techs) AS t(tech) WHERE t.tech ILIKE $1)
		 ORDER BY seq`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search postings: %w", err)
	}
	return collectPostings(rows)
}

// Create inserts a posting with creation defaults applied.
func (db *DB) Create(ctx context.Context, post types.JobPosting) (*types.JobPosting, error) {
	post = store.ApplyCreateDefaults(post, db.now())

	techs, err := json.Marshal(post.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal techs: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO job_posts (id, profile, company, location, type, exp, salary, techs,
		   description, requirements, benefits, contact_email, application_deadline, status,
		   applications, views, posted_date, employer_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		post.ID, post.Title, post.Company, post.Location, post.Type, post.Experience, post.Salary,
		techs, post.Description, post.Requirements, post.Benefits, post.ContactEmail,
		timestampArg(post.ApplicationDeadline), post.Status, post.Applications, post.Views,
		post.PostedDate.Time, post.EmployerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create posting: %w", err)
	}
	return &post, nil
}

// Get returns the posting or nil when it does not exist.
func (db *DB) Get(ctx context.Context, id string) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+postingColumns+` FROM job_posts WHERE id = $1`, id)
	p, err := scanPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return p, nil
}

// Delete removes a posting owned by employerID.
func (db *DB) Delete(ctx context.Context, id, employerID string) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM job_posts WHERE id = $1 AND employer_id = $2`, id, employerID)
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &store.NotFoundError{Kind: "posting", ID: id}
	}
	return nil
}

// ListByEmployer returns the postings created by employerID.
func (db *DB) ListByEmployer(ctx context.Context, employerID string) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+postingColumns+` FROM job_posts WHERE employer_id = $1 ORDER BY seq`,
		employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer postings: %w", err)
	}
	return collectPostings(rows)
}

// RecordApplication stores an application and increments the posting's
// application count in one transaction.
func (db *DB) RecordApplication(ctx context.Context, postingID string, applicantID uuid.UUID, req types.ApplicationRequest) (*types.ApplicationReceipt, error) {
	var availableFrom *time.Time
	if req.AvailableFrom != "" {
		t, err := time.Parse("2006-01-02", req.AvailableFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid availableFrom: %w", err)
		}
		availableFrom = &t
	}

	receipt := &types.ApplicationReceipt{
		PostingID:   postingID,
		ApplicantID: applicantID,
		Message:     store.ApplicationReceivedMessage,
	}

	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx,
			`UPDATE job_posts SET applications = applications + 1 WHERE id = $1 RETURNING id`,
			postingID,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return &store.NotFoundError{Kind: "posting", ID: postingID}
		}
		if err != nil {
			return fmt.Errorf("failed to update application count: %w", err)
		}

		return tx.QueryRow(ctx,
			`INSERT INTO job_applications (post_id, applicant_id, cover_letter, expected_salary,
			   available_from, resume_file_name)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING submitted_at`,
			postingID, applicantID, req.CoverLetter, req.ExpectedSalary, availableFrom, req.ResumeFileName,
		).Scan(&receipt.SubmittedAt)
	})
	if err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record application: %w", err)
	}
	receipt.SubmittedAt = receipt.SubmittedAt.UTC()
	return receipt, nil
}

func collectPostings(rows pgx.Rows) ([]types.JobPosting, error) {
	defer rows.Close()

	posts := []types.JobPosting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postings: %w", err)
	}
	return posts, nil
}

func scanPosting(row pgx.Row) (*types.JobPosting, error) {
	var (
		p        types.JobPosting
		techs    []byte
		deadline *time.Time
		posted   time.Time
	)
	err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.Type, &p.Experience,
		&p.Salary, &techs, &p.Description, &p.Requirements, &p.Benefits, &p.ContactEmail,
		&deadline, &p.Status, &p.Applications, &p.Views, &posted, &p.EmployerID)
	if err != nil {
		return nil, err
	}

	p.Skills = []string{}
	if len(techs) > 0 {
		if err := json.Unmarshal(techs, &p.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal techs: %w", err)
		}
	}
	if deadline != nil {
		p.ApplicationDeadline = types.NewTimestamp(deadline.UTC())
	}
	p.PostedDate = types.NewTimestamp(posted.UTC())
	return &p, nil
}

func timestampArg(ts *types.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

// escapeLike escapes LIKE wildcards so text matches literally.
func escapeLike(text string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
}
