package handlers

import (
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ApplyRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	app, err := h.applicationService.Apply(c.UserContext(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("Application submitted successfully", app))
}

func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	resp, err := h.applicationService.ListMine(c.UserContext(), actor,
		c.Query("status"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Applications retrieved successfully", resp))
}

func (h *ApplicationHandler) ForJob(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	jobID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	resp, err := h.applicationService.ListForJob(c.UserContext(), actor, jobID,
		c.Query("status"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Applications retrieved successfully", resp))
}

func (h *ApplicationHandler) Stats(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := h.applicationService.Stats(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Application statistics retrieved successfully", stats))
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	app, err := h.applicationService.Get(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Application retrieved successfully", app))
}

func (h *ApplicationHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ApplicationStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	app, err := h.applicationService.SetStatus(c.UserContext(), actor, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Application status updated successfully", app))
}

func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.applicationService.Withdraw(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Application withdrawn successfully", nil))
}
