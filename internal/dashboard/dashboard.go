// Package dashboard computes the employer dashboard summary.
package dashboard

import (
	"time"

	"github.com/jonathan/jobboard/internal/types"
)

// SuccessRate is the fixed success-rate figure shown on the dashboard.
const SuccessRate = "85%"

// Stats is the dashboard summary row.
type Stats struct {
	ActiveJobs        int    `json:"active_jobs"`
	TotalApplications int    `json:"total_applications"`
	TotalViews        int    `json:"total_views"`
	SuccessRate       string `json:"success_rate"`
}

// Dashboard is what an employer sees: their postings and the summary.
type Dashboard struct {
	Stats    Stats              `json:"stats"`
	Postings []types.JobPosting `json:"postings"`
	Demo     bool               `json:"demo"`
}

// Compute reduces postings to the summary stats.
func Compute(posts []types.JobPosting) Stats {
	stats := Stats{SuccessRate: SuccessRate}
	for i := range posts {
		if posts[i].Status == types.StatusActive {
			stats.ActiveJobs++
		}
		stats.TotalApplications += posts[i].Applications
		stats.TotalViews += posts[i].Views
	}
	return stats
}

// Build assembles the dashboard for an employer. An employer without
// postings gets the demo postings, flagged as such.
func Build(posts []types.JobPosting) Dashboard {
	demo := false
	if len(posts) == 0 {
		posts = MockEmployerPostings()
		demo = true
	}
	return Dashboard{Stats: Compute(posts), Postings: posts, Demo: demo}
}

// Remove returns posts without the posting whose id matches.
func Remove(posts []types.JobPosting, id string) []types.JobPosting {
	out := make([]types.JobPosting, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// MockEmployerPostings returns the demo postings shown to a new employer.
func MockEmployerPostings() []types.JobPosting {
	return []types.JobPosting{
		{
			ID:           "1",
			Title:        "Senior React Developer",
			Company:      "TechCorp",
			Location:     "Bengaluru, Karnataka, India",
			Type:         "Full-time",
			Experience:   5,
			Salary:       "$80k - $120k",
			Skills:       []string{"React", "JavaScript", "Node.js"},
			Description:  "We are looking for an experienced React developer to join our team.",
			Status:       types.StatusActive,
			Applications: 24,
			Views:        156,
			PostedDate:   date(2024, time.January, 15),
		},
		{
			ID:           "2",
			Title:        "Full Stack Engineer",
			Company:      "TechCorp",
			Location:     "Mumbai, Maharashtra, India",
			Type:         "Full-time",
			Experience:   3,
			Salary:       "$60k - $90k",
			Skills:       []string{"Java", "Spring Boot", "React"},
			Description:  "Join our dynamic team as a Full Stack Engineer.",
			Status:       types.StatusActive,
			Applications: 18,
			Views:        98,
			PostedDate:   date(2024, time.January, 10),
		},
		{
			ID:           "3",
			Title:        "DevOps Engineer",
			Company:      "TechCorp",
			Location:     "Pune, Maharashtra, India",
			Type:         "Contract",
			Experience:   4,
			Salary:       "$70k - $100k",
			Skills:       []string{"AWS", "Docker", "Kubernetes"},
			Description:  "Help us build and maintain our cloud infrastructure.",
			Status:       types.StatusClosed,
			Applications: 32,
			Views:        203,
			PostedDate:   date(2023, time.December, 20),
		},
	}
}

func date(y int, m time.Month, d int) *types.Timestamp {
	return types.NewTimestamp(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
