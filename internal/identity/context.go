// Package identity carries the authenticated caller through a request.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsKey = "identity"

var ErrMissing = errors.New("no identity in context")

// Identity is what the access gate resolves from a verified token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (i Identity) Is(role string) bool { return i.Role == role }

// Set attaches id to the request.
func Set(c *fiber.Ctx, id Identity) {
	c.Locals(localsKey, id)
}

// Get returns the identity attached by the access gate.
func Get(c *fiber.Ctx) (Identity, error) {
	id, ok := c.Locals(localsKey).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, ErrMissing
	}
	return id, nil
}

// GetUserID extracts the caller's user id.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := Get(c)
	if err != nil {
		return uuid.Nil, err
	}
	return id.UserID, nil
}
