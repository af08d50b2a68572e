package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateUserRequest
		wantField string
	}{
		{
			name:    "job seeker",
			request: CreateUserRequest{Name: "Sam", Email: "sam@example.com", Password: "correct-horse", Role: RoleEmployee},
		},
		{
			name:    "employer with company",
			request: CreateUserRequest{Name: "HR", Email: "hr@acme.test", Password: "correct-horse", Role: RoleEmployer, Company: "Acme"},
		},
		{
			name:      "employer without company",
			request:   CreateUserRequest{Name: "HR", Email: "hr@acme.test", Password: "correct-horse", Role: RoleEmployer},
			wantField: "Company",
		},
		{
			name:      "unknown role",
			request:   CreateUserRequest{Name: "Root", Email: "root@example.com", Password: "correct-horse", Role: "admin"},
			wantField: "Role",
		},
		{
			name:      "missing role",
			request:   CreateUserRequest{Name: "Sam", Email: "sam@example.com", Password: "correct-horse"},
			wantField: "Role",
		},
		{
			name:      "invalid email",
			request:   CreateUserRequest{Name: "Sam", Email: "not-an-email", Password: "correct-horse", Role: RoleEmployee},
			wantField: "Email",
		},
		{
			name:      "short password",
			request:   CreateUserRequest{Name: "Sam", Email: "sam@example.com", Password: "short", Role: RoleEmployee},
			wantField: "Password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field())
		})
	}
}

func TestLoginRequest(t *testing.T) {
	req := LoginRequest{Email: "sam@example.com", Password: "correct-horse"}

	assert.NoError(t, req.Validate())
	assert.Equal(t, Credentials{Email: "sam@example.com", Password: "correct-horse"}, req.Credentials())

	assert.Error(t, (&LoginRequest{Email: "sam@example.com"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "sam", Password: "x"}).Validate())
}

func TestIdentity_IsEmployer(t *testing.T) {
	var nilIdentity *Identity

	assert.True(t, (&Identity{Role: RoleEmployer}).IsEmployer())
	assert.False(t, (&Identity{Role: RoleEmployee}).IsEmployer())
	assert.False(t, nilIdentity.IsEmployer())
}

func TestLoginResponse_JSON(t *testing.T) {
	id := uuid.New()
	resp := LoginResponse{
		User: &User{
			ID:        id,
			Name:      "HR",
			Email:     "hr@acme.test",
			Role:      RoleEmployer,
			Company:   "Acme",
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Token: "token-value",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "token-value", decoded["token"])

	user, ok := decoded["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id.String(), user["id"])
	assert.Equal(t, RoleEmployer, user["user_type"])
	assert.Equal(t, "Acme", user["company"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "role")
}

func TestApplicationRequest_Validation(t *testing.T) {
	validate := validator.New()

	assert.NoError(t, validate.Struct(ApplicationRequest{}))
	assert.NoError(t, validate.Struct(ApplicationRequest{AvailableFrom: "2030-01-31", ResumeContentType: "application/pdf"}))
	assert.Error(t, validate.Struct(ApplicationRequest{AvailableFrom: "next week"}))
	assert.Error(t, validate.Struct(ApplicationRequest{ResumeContentType: "application/msword"}))
}
