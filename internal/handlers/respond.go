package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// respondError maps a service error onto the response envelope.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Validation failed", verr.Fields...))
	case errors.Is(err, services.ErrInvalidState):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, identity.ErrMissing):
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusConflict, err.Error())
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.Fail(message))
}

// parseBody decodes the request body into out. A malformed salary gets its
// own message; anything else is reported as an invalid body.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		if errors.Is(err, models.ErrInvalidSalary) || strings.Contains(err.Error(), models.ErrInvalidSalary.Error()) {
			return services.Invalid(models.ErrInvalidSalary.Error())
		}
		return services.Invalid("Invalid request body")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, services.Invalid("Invalid " + name)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// queryList accepts both ?skills=a,b and repeated ?skills=a&skills=b.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryDate(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, services.Invalid(key + " must be a date (YYYY-MM-DD)")
}

// setAuthCookies writes both token cookies.
func setAuthCookies(c *fiber.Ctx, secure bool, access, refresh string, accessTTL, refreshTTL time.Duration) {
	now := time.Now()
	c.Cookie(authCookie(accessCookie, access, now.Add(accessTTL), secure))
	c.Cookie(authCookie(refreshCookie, refresh, now.Add(refreshTTL), secure))
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(c *fiber.Ctx, secure bool) {
	past := time.Unix(0, 0)
	c.Cookie(authCookie(accessCookie, "", past, secure))
	c.Cookie(authCookie(refreshCookie, "", past, secure))
}

func authCookie(name, value string, expires time.Time, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
