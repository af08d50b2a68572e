package feed

import "github.com/jonathan/jobboard/internal/types"

// FallbackNotice is shown alongside the fallback listing when the remote
// listing could not be loaded.
const FallbackNotice = "Failed to load job postings. Please try again later."

// FallbackPostings returns the fixed listing shown when the remote listing
// cannot be fetched, so the feed stays populated. Each call returns a fresh copy.
func FallbackPostings() []types.JobPosting {
	return []types.JobPosting{
		{
			ID:          "1",
			Title:       "Frontend Engineer",
			Company:     "eBay",
			Experience:  3,
			Skills:      []string{"React", "JavaScript", "TypeScript", "CSS"},
			Description: "Join our dynamic frontend team to build scalable, user-friendly web applications that serve millions of users worldwide.",
			Salary:      "USD 80k - 120k",
			Location:    "Bengaluru, Karnataka, India",
			Type:        "Full-time",
		},
		{
			ID:          "2",
			Title:       "SDE 1 - UI",
			Company:     "Navi",
			Experience:  2,
			Skills:      []string{"React", "JavaScript", "HTML", "CSS"},
			Description: "Work on cutting-edge UI components and help us create seamless user experiences for our financial products.",
			Salary:      "INR 15L - 25L",
			Location:    "Bengaluru, Karnataka, India",
			Type:        "Full-time",
		},
		{
			ID:          "3",
			Title:       "Associate Software Developer - Java Full stack",
			Company:     "Boeing",
			Experience:  2,
			Skills:      []string{"Java", "Spring Boot", "React", "MongoDB"},
			Description: "Contribute to mission-critical aerospace software systems and help shape the future of aviation technology.",
			Salary:      "INR 12L - 20L",
			Location:    "Bengaluru, Karnataka, India",
			Type:        "Full-time",
		},
		{
			ID:          "4",
			Title:       "Senior Python Developer",
			Company:     "Google",
			Experience:  5,
			Skills:      []string{"Python", "Django", "PostgreSQL", "AWS"},
			Description: "Build scalable backend services and APIs that power Google's next-generation products and services.",
			Salary:      "USD 150k - 200k",
			Location:    "Hyderabad, Telangana, India",
			Type:        "Full-time",
		},
		{
			ID:          "5",
			Title:       "Machine Learning Engineer",
			Company:     "Microsoft",
			Experience:  4,
			Skills:      []string{"Python", "TensorFlow", "PyTorch", "Azure"},
			Description: "Develop cutting-edge ML models and algorithms that drive innovation across Microsoft's product suite.",
			Salary:      "USD 120k - 180k",
			Location:    "Mumbai, Maharashtra, India",
			Type:        "Full-time",
		},
		{
			ID:          "6",
			Title:       "DevOps Engineer",
			Company:     "Amazon",
			Experience:  3,
			Skills:      []string{"AWS", "Docker", "Kubernetes", "Jenkins"},
			Description: "Build and maintain robust CI/CD pipelines and cloud infrastructure for Amazon's global services.",
			Salary:      "USD 100k - 150k",
			Location:    "Pune, Maharashtra, India",
			Type:        "Full-time",
		},
	}
}

// AvailableSkills is the skill vocabulary offered by the feed's skill filter.
var AvailableSkills = []string{
	"JavaScript", "Java", "Python", "React", "Node.js", "Spring Boot",
	"MongoDB", "SQL", "AWS", "Docker", "Kubernetes", "Machine Learning",
	"Data Science", "DevOps", "Frontend", "Backend", "Full Stack",
}
