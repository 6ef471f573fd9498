package handlers

import (
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService  *services.AuthService
	tokenService *services.TokenService
	secure       bool
}

// NewAuthHandler wires the auth endpoints. secure sets the Secure flag on
// the token cookies.
func NewAuthHandler(authService *services.AuthService, tokenService *services.TokenService, secure bool) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService, secure: secure}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setCookies(c, resp)
	return c.Status(fiber.StatusCreated).JSON(dto.OK("User registered successfully", resp))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.setCookies(c, resp)
	return c.JSON(dto.OK("Login successful", resp))
}

// Logout only clears cookies; issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearAuthCookies(c, h.secure)
	return c.JSON(dto.OK("Logged out successfully", nil))
}

// Refresh reads the refresh token from its cookie, falling back to the body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		var req dto.RefreshRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &req); err != nil {
				return respondError(c, err)
			}
		}
		token = req.RefreshToken
	}
	if token == "" {
		return fail(c, fiber.StatusUnauthorized, "Refresh token is required")
	}

	resp, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}

	h.setCookies(c, resp)
	return c.JSON(dto.OK("Token refreshed successfully", resp))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("User retrieved successfully", user))
}

func (h *AuthHandler) setCookies(c *fiber.Ctx, resp *dto.AuthResponse) {
	setAuthCookies(c, h.secure, resp.AccessToken, resp.RefreshToken,
		h.tokenService.AccessTTL(), h.tokenService.RefreshTTL())
}
