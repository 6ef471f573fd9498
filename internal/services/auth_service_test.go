package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupRequest(role string) *dto.SignupRequest {
	req := &dto.SignupRequest{
		Name:     "Aisha Rahman",
		Email:    "Aisha@Example.com",
		Password: "secret123",
		Role:     role,
	}
	if role == models.RoleEmployer {
		req.CompanyName = "Masjid Al-Noor"
	}
	return req
}

func (s *ServiceSuite) TestSignup() {
	s.T().Run("stores lowercased email and issues tokens", func(t *testing.T) {
		resp, err := s.auth.Signup(s.ctx, signupRequest(models.RoleEmployer))
		require.NoError(t, err)
		assert.Equal(t, "aisha@example.com", resp.User.Email)
		assert.Equal(t, models.RoleEmployer, resp.User.Role)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		stored, err := s.store.Users().FindByEmail(s.ctx, "aisha@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Masjid Al-Noor", stored.Organization)
		assert.NotEqual(t, "secret123", stored.Password)
		assert.True(t, stored.IsActive)
	})

	s.T().Run("second signup with any casing conflicts", func(t *testing.T) {
		req := signupRequest(models.RoleApplicant)
		req.Email = "AISHA@EXAMPLE.COM"
		_, err := s.auth.Signup(s.ctx, req)
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, ErrConflict)
	})

	s.T().Run("rejects invalid input with every field error", func(t *testing.T) {
		_, err := s.auth.Signup(s.ctx, &dto.SignupRequest{Name: "A", Email: "nope", Password: "123", Role: "admin"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 4)
	})

	s.T().Run("employer needs an organization", func(t *testing.T) {
		req := signupRequest(models.RoleEmployer)
		req.Email = "other@example.com"
		req.CompanyName = ""
		_, err := s.auth.Signup(s.ctx, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "organization is required for employers")
	})

	s.T().Run("applicants never store an organization", func(t *testing.T) {
		req := signupRequest(models.RoleApplicant)
		req.Email = "applicant@example.com"
		req.Organization = "Ignored Ltd"
		_, err := s.auth.Signup(s.ctx, req)
		require.NoError(t, err)

		stored, err := s.store.Users().FindByEmail(s.ctx, req.Email)
		require.NoError(t, err)
		assert.Empty(t, stored.Organization)
	})
}

func (s *ServiceSuite) TestLogin() {
	_, err := s.auth.Signup(s.ctx, signupRequest(models.RoleEmployer))
	s.Require().NoError(err)

	s.T().Run("correct password returns the stored role", func(t *testing.T) {
		resp, err := s.auth.Login(s.ctx, &dto.LoginRequest{Email: "aisha@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleEmployer, resp.User.Role)

		claims, err := s.tokens.VerifyAccess(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEmployer, claims.Role)
		assert.Equal(t, resp.User.ID.String(), claims.UserID)
	})

	s.T().Run("wrong password", func(t *testing.T) {
		_, err := s.auth.Login(s.ctx, &dto.LoginRequest{Email: "aisha@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	s.T().Run("unknown email looks the same as a wrong password", func(t *testing.T) {
		_, err := s.auth.Login(s.ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	s.T().Run("deactivated account cannot log in", func(t *testing.T) {
		user, err := s.store.Users().FindByEmail(s.ctx, "aisha@example.com")
		require.NoError(t, err)
		admin := s.newUser(models.RoleAdmin, "admin@example.com")
		require.NoError(t, s.users.Deactivate(s.ctx, admin, user.ID))

		_, err = s.auth.Login(s.ctx, &dto.LoginRequest{Email: "aisha@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func (s *ServiceSuite) TestRefresh() {
	resp, err := s.auth.Signup(s.ctx, signupRequest(models.RoleApplicant))
	s.Require().NoError(err)

	s.T().Run("rotates both tokens", func(t *testing.T) {
		next, err := s.auth.Refresh(s.ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, next.User.ID)
		assert.NotEmpty(t, next.AccessToken)
		assert.NotEmpty(t, next.RefreshToken)
	})

	s.T().Run("access token is not a refresh token", func(t *testing.T) {
		_, err := s.auth.Refresh(s.ctx, resp.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	s.T().Run("picks up a role change", func(t *testing.T) {
		role := models.RoleEmployer
		admin := s.newUser(models.RoleAdmin, "root@example.com")
		_, err := s.users.AdminUpdate(s.ctx, admin, resp.User.ID, &dto.AdminUserUpdateRequest{Role: &role})
		require.NoError(t, err)

		next, err := s.auth.Refresh(s.ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEmployer, next.User.Role)
	})

	s.T().Run("deactivated user cannot refresh", func(t *testing.T) {
		inactive := false
		admin := s.newUser(models.RoleAdmin, "root2@example.com")
		_, err := s.users.AdminUpdate(s.ctx, admin, resp.User.ID, &dto.AdminUserUpdateRequest{IsActive: &inactive})
		require.NoError(t, err)

		_, err = s.auth.Refresh(s.ctx, resp.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func (s *ServiceSuite) TestMe() {
	resp, err := s.auth.Signup(s.ctx, signupRequest(models.RoleApplicant))
	s.Require().NoError(err)

	user, err := s.auth.Me(s.ctx, resp.User.ID)
	s.Require().NoError(err)
	s.Equal("aisha@example.com", user.Email)

	_, err = s.auth.Me(s.ctx, uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
}
