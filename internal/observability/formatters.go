// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/jobboard/internal/dashboard"
	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/jonathan/jobboard/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxSkillsToShow is the number of skill tags listed per posting
	maxSkillsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func writePosting(sb *strings.Builder, post *types.JobPosting) {
	fmt.Fprintf(sb, "%s @ %s\n", post.Title, post.Company)
	fmt.Fprintf(sb, "    id: %s", post.ID)
	if post.Experience > 0 {
		fmt.Fprintf(sb, "  exp: %d+ yrs", post.Experience)
	}
	sb.WriteString("\n")
	if post.Location != "" || post.Type != "" {
		fmt.Fprintf(sb, "    %s\n", strings.TrimSpace(post.Location+"  "+post.Type))
	}
	if len(post.Skills) > 0 {
		skills := post.Skills
		more := ""
		if len(skills) > maxSkillsToShow {
			more = fmt.Sprintf(" +%d", len(skills)-maxSkillsToShow)
			skills = skills[:maxSkillsToShow]
		}
		fmt.Fprintf(sb, "    [%s]%s\n", strings.Join(skills, ", "), more)
	}
}

// PrintFeedPage outputs one page of the job seeker feed. A non-empty notice
// is shown above the results.
func (p *Printer) PrintFeedPage(page feed.Page, notice string) {
	var sb strings.Builder
	if notice != "" {
		fmt.Fprintf(&sb, "⚠ %s\n\n", notice)
	}

	if page.Empty {
		sb.WriteString("No jobs match your filters.")
		p.printBox("JOB FEED", sb.String())
		return
	}

	fmt.Fprintf(&sb, "Page %d of %d (%d postings)\n\n", page.Page, page.TotalPages, page.TotalCount)
	for i := range page.Items {
		writePosting(&sb, &page.Items[i])
		if i < len(page.Items)-1 {
			sb.WriteString("\n")
		}
	}
	if len(page.Items) == 0 {
		sb.WriteString("No postings on this page.")
	}

	p.printBox("JOB FEED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPosting outputs a single posting, such as one just created.
func (p *Printer) PrintPosting(title string, post *types.JobPosting) {
	if post == nil {
		return
	}

	var sb strings.Builder
	writePosting(&sb, post)
	if post.Salary != "" {
		fmt.Fprintf(&sb, "    salary: %s\n", post.Salary)
	}
	if post.ApplicationDeadline != nil {
		fmt.Fprintf(&sb, "    apply by: %s\n", post.ApplicationDeadline.Format("2006-01-02"))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDashboard outputs the employer dashboard summary and postings.
func (p *Printer) PrintDashboard(d dashboard.Dashboard) {
	var sb strings.Builder
	if d.Demo {
		sb.WriteString("(demo data: no postings yet)\n\n")
	}
	fmt.Fprintf(&sb, "Active jobs:   %d\n", d.Stats.ActiveJobs)
	fmt.Fprintf(&sb, "Applications:  %d\n", d.Stats.TotalApplications)
	fmt.Fprintf(&sb, "Views:         %d\n", d.Stats.TotalViews)
	fmt.Fprintf(&sb, "Success rate:  %s\n", d.Stats.SuccessRate)

	for i := range d.Postings {
		post := &d.Postings[i]
		fmt.Fprintf(&sb, "\n• %s [%s]\n", post.Title, post.Status)
		fmt.Fprintf(&sb, "  %d applications, %d views", post.Applications, post.Views)
	}

	p.printBox("EMPLOYER DASHBOARD", sb.String())
}

// PrintBackendStatus outputs the result of a backend connectivity probe.
func (p *Printer) PrintBackendStatus(name string, status postings.Status) {
	mark := "✅"
	if !status.Connected {
		mark = "❌"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", mark, status.Message)
	if status.StatusCode != 0 {
		fmt.Fprintf(&sb, "Status code: %d\n", status.StatusCode)
	}
	fmt.Fprintf(&sb, "Latency:     %s", status.Latency.Round(time.Millisecond))

	p.printBox(strings.ToUpper(name), sb.String())
}
