package handlers

import (
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.Profile(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Profile retrieved successfully", user))
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.updateProfile(c, actor, actor.UserID)
}

// Get returns the full profile to the user or an admin and a public
// profile to employers.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	profile, err := h.userService.View(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("User retrieved successfully", profile))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	return h.updateProfile(c, actor, id)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx, actor identity.Identity, id uuid.UUID) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Profile updated successfully", user))
}

func (h *UserHandler) ReplaceSkills(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SkillsRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.ReplaceSkills(c.UserContext(), actor, req.Skills)
	return h.skillsResult(c, user, err, "Skills updated successfully")
}

func (h *UserHandler) AddSkill(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SkillRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.AddSkill(c.UserContext(), actor, req.Skill)
	return h.skillsResult(c, user, err, "Skill added successfully")
}

// RemoveSkill takes the skill from ?skill=.
func (h *UserHandler) RemoveSkill(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.RemoveSkill(c.UserContext(), actor, c.Query("skill"))
	return h.skillsResult(c, user, err, "Skill removed successfully")
}

func (h *UserHandler) skillsResult(c *fiber.Ctx, user *models.User, err error, message string) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(message, fiber.Map{"skills": user.Skills}))
}

func (h *UserHandler) ReplaceEducation(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.EducationListRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.ReplaceEducation(c.UserContext(), actor, req.Education)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Education updated successfully", fiber.Map{"education": user.Education}))
}

func (h *UserHandler) AddEducation(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var entry models.Education
	if err := parseBody(c, &entry); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.AddEducation(c.UserContext(), actor, entry)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("Education added successfully", fiber.Map{"education": user.Education}))
}

func (h *UserHandler) ReplaceExperience(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ExperienceListRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.ReplaceExperience(c.UserContext(), actor, req.Experience)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Experience updated successfully", fiber.Map{"experience": user.Experience}))
}

func (h *UserHandler) AddExperience(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var entry models.Experience
	if err := parseBody(c, &entry); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.AddExperience(c.UserContext(), actor, entry)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("Experience added successfully", fiber.Map{"experience": user.Experience}))
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	q := dto.UserQuery{
		Role:     c.Query("role"),
		Location: c.Query("location"),
		Skills:   queryList(c, "skills"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	resp, err := h.userService.Search(c.UserContext(), actor, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Users retrieved successfully", resp))
}
