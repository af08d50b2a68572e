package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/jobboard/internal/server/middleware"
	"github.com/jonathan/jobboard/internal/types"
	"go.uber.org/zap"
)

// maxAuthBody bounds register/login request bodies.
const maxAuthBody = 16 << 10

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   newRequestValidator(),
		logger:      logger,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, h.logger, extractValidationErrors(err))
		return
	}

	user, identity, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user, identity)
	h.logger.Info("user registered", zap.Stringer("user_id", user.ID), zap.String("user_type", user.Role))
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, h.logger, extractValidationErrors(err))
		return
	}

	user, identity, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		var invalid *ErrInvalidCredentials
		if errors.As(err, &invalid) {
			h.logger.Info("login rejected", zap.String("remote_addr", r.RemoteAddr))
		}
		writeError(w, h.logger, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user, identity)
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, h.logger, &ErrInvalidCredentials{})
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User, identity *types.Identity) {
	token, err := h.jwtService.GenerateToken(identity)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("failed to generate token: %w", err))
		return
	}

	writeJSON(w, h.logger, status, types.LoginResponse{
		User:  user,
		Token: token,
	})
}

// extractValidationErrors converts the first validator failure into an ErrValidation.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: validationMessage(ve)}
	}
	return &ErrValidation{Field: "(root)", Message: "invalid request"}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date in the form %s", fe.Param())
	case "eq":
		return fmt.Sprintf("must be %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// newRequestValidator reports fields by their JSON names.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "(body)", Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}
