// Package schemas holds the JSON Schema documents for API payloads.
package schemas

import "embed"

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names.
const (
	JobPosting  = "job_posting.schema.json"
	PostingForm = "posting_form.schema.json"
)
