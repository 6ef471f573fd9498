package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", services.Invalid("title is required", "location is required"), fiber.StatusBadRequest, "Validation failed"},
		{"closed job", services.ErrJobNotActive, fiber.StatusBadRequest, "This job is no longer accepting applications"},
		{"credentials", services.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid email or password"},
		{"token", fmt.Errorf("%w: expired", services.ErrInvalidToken), fiber.StatusUnauthorized, "invalid or expired token: expired"},
		{"no identity", identity.ErrMissing, fiber.StatusUnauthorized, "Authentication required"},
		{"forbidden", services.Forbidden("Not your job"), fiber.StatusForbidden, "Not your job"},
		{"not found", services.ErrJobNotFound, fiber.StatusNotFound, "Job not found"},
		{"conflict", services.ErrAlreadyApplied, fiber.StatusConflict, "You have already applied for this job"},
		{"unexpected", errors.New("connection reset"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body dto.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			if tt.name == "validation" {
				assert.Equal(t, []string{"title is required", "location is required"}, body.Errors)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	type parsed struct {
		Skills []string
		Page   int
		From   time.Time
		Err    error
	}
	var got parsed

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsed{Skills: queryList(c, "skills"), Page: queryInt(c, "page")}
		got.From, got.Err = queryDate(c, "startDate")
		return nil
	})
	run := func(t *testing.T, query string) parsed {
		t.Helper()
		got = parsed{}
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+query, nil))
		require.NoError(t, err)
		return got
	}

	t.Run("comma separated and repeated lists", func(t *testing.T) {
		p := run(t, "?skills=Arabic,%20Tajweed&skills=Fiqh&skills=")
		assert.Equal(t, []string{"Arabic", "Tajweed", "Fiqh"}, p.Skills)
	})

	t.Run("bad page falls back to zero", func(t *testing.T) {
		assert.Equal(t, 3, run(t, "?page=3").Page)
		assert.Zero(t, run(t, "?page=abc").Page)
	})

	t.Run("dates", func(t *testing.T) {
		p := run(t, "?startDate=2026-03-01")
		require.NoError(t, p.Err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.From)

		p = run(t, "?startDate=2026-03-01T10:00:00Z")
		require.NoError(t, p.Err)
		assert.Equal(t, 10, p.From.Hour())

		p = run(t, "")
		require.NoError(t, p.Err)
		assert.True(t, p.From.IsZero())

		p = run(t, "?startDate=yesterday")
		var verr *services.ValidationError
		assert.ErrorAs(t, p.Err, &verr)
	})
}
