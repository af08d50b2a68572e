package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/server/middleware"
	"github.com/jonathan/jobboard/internal/store"
	"github.com/jonathan/jobboard/internal/types"
	"go.uber.org/zap"
)

// maxPostingBody bounds posting and wizard form request bodies.
const maxPostingBody = 256 << 10

// parseQueryInt parses a non-negative integer query parameter, capped at
// maxValue when maxValue is positive.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) (int, error) {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return 0, &ErrValidation{Field: key, Message: "must be a non-negative integer"}
	}
	if maxValue > 0 && val > maxValue {
		return maxValue, nil
	}
	return val, nil
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, &ErrValidation{Field: "(body)", Message: fmt.Sprintf("failed to read request body: %v", err)}
	}
	return body, nil
}

// handleListPosts returns every stored posting.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.List(r.Context())
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to list postings: %w", err))
		return
	}
	if posts == nil {
		posts = []types.JobPosting{}
	}
	s.jsonResponse(w, http.StatusOK, posts)
}

// handleSearchPosts returns postings matching the path text.
func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	text := r.PathValue("text")
	posts, err := s.store.Search(r.Context(), text)
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to search postings: %w", err))
		return
	}
	if posts == nil {
		posts = []types.JobPosting{}
	}
	s.jsonResponse(w, http.StatusOK, posts)
}

// handleCreatePost stores a posting submitted in the backend wire format.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxPostingBody)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := schemas.ValidatePosting(body); err != nil {
		s.errorResponse(w, err)
		return
	}

	var post types.JobPosting
	if err := json.Unmarshal(body, &post); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "(body)", Message: fmt.Sprintf("invalid posting: %v", err)})
		return
	}

	created, err := s.store.Create(r.Context(), post)
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to create posting: %w", err))
		return
	}
	s.postingCreated(r.Context(), created)
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleGetPosting returns a single posting.
func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	post, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.errorResponse(w, fmt.Errorf("failed to get posting: %w", err))
		return
	}
	if post == nil {
		post = s.findListedPosting(r.Context(), id)
	}
	if post == nil {
		s.errorResponse(w, &store.NotFoundError{Kind: "posting", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, post)
}

// handleApply records a job seeker's application to a posting.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, &ErrInvalidCredentials{})
		return
	}

	var req types.ApplicationRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, maxPostingBody, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, extractValidationErrors(err))
		return
	}

	postingID := r.PathValue("id")
	receipt, err := s.store.RecordApplication(r.Context(), postingID, identity.UserID, req)
	var notFound *store.NotFoundError
	switch {
	case errors.As(err, &notFound) && s.findListedPosting(r.Context(), postingID) != nil:
		// Listed by the upstream backend, which keeps no application records.
		receipt = &types.ApplicationReceipt{
			PostingID:   postingID,
			ApplicantID: identity.UserID,
			SubmittedAt: time.Now().UTC(),
			Message:     store.ApplicationReceivedMessage,
		}
	case err != nil:
		s.errorResponse(w, err)
		return
	default:
		s.loader.Invalidate(r.Context())
	}

	s.logger.Info("application submitted",
		zap.String("posting_id", postingID),
		zap.Stringer("applicant_id", identity.UserID))
	s.jsonResponse(w, http.StatusCreated, receipt)
}

// findListedPosting returns the feed posting with id, or nil. The fallback
// listing is sample data and never matches.
func (s *Server) findListedPosting(ctx context.Context, id string) *types.JobPosting {
	listing := s.loader.Load(ctx)
	if listing.Fallback {
		return nil
	}
	for i := range listing.Posts {
		if listing.Posts[i].ID == id {
			post := listing.Posts[i]
			return &post
		}
	}
	return nil
}

// postingCreated announces a new posting and drops the cached listing.
// A failed publish is logged; the posting is already stored.
func (s *Server) postingCreated(ctx context.Context, post *types.JobPosting) {
	if err := s.publisher.PublishPostingCreated(ctx, post); err != nil {
		s.logger.Warn("failed to publish posting created event",
			zap.String("posting_id", post.ID),
			zap.Error(err))
	}
	s.loader.Invalidate(ctx)
}
