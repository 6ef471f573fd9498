package dto

import (
	"net/mail"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
)

type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	Organization string `json:"organization"`
	CompanyName  string `json:"companyName"`
}

// Normalize trims input, lowercases the email and defaults the role.
func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.TrimSpace(r.Role)
	if r.Role == "" {
		r.Role = models.RoleApplicant
	}
	r.Organization = strings.TrimSpace(r.Organization)
	if r.Organization == "" {
		r.Organization = strings.TrimSpace(r.CompanyName)
	}
}

func (r *SignupRequest) Validate() []string {
	var errs []string
	if n := len([]rune(r.Name)); n < 2 || n > 50 {
		errs = append(errs, "name must be between 2 and 50 characters")
	}
	if !validEmail(r.Email) {
		errs = append(errs, "email must be a valid email address")
	}
	if len(r.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters long")
	}
	if r.Role != models.RoleApplicant && r.Role != models.RoleEmployer {
		errs = append(errs, "role must be one of applicant, employer")
	}
	if r.Role == models.RoleEmployer && r.Organization == "" {
		errs = append(errs, "organization is required for employers")
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() []string {
	var errs []string
	if !validEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type AuthResponse struct {
	User         AuthUser `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"-"`
}

func NewAuthUser(u *models.User) AuthUser {
	return AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
