package handlers

import (
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves /api/admin. Every route behind it already requires
// the admin role.
type AdminHandler struct {
	userService        *services.UserService
	jobService         *services.JobService
	applicationService *services.ApplicationService
	statsService       *services.StatsService
}

func NewAdminHandler(
	userService *services.UserService,
	jobService *services.JobService,
	applicationService *services.ApplicationService,
	statsService *services.StatsService,
) *AdminHandler {
	return &AdminHandler{
		userService:        userService,
		jobService:         jobService,
		applicationService: applicationService,
		statsService:       statsService,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	q := dto.UserQuery{
		Role:      c.Query("role"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	resp, err := h.userService.AdminList(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Users retrieved successfully", resp))
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	detail, err := h.userService.AdminDetail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("User retrieved successfully", detail))
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.AdminUserUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.AdminUpdate(c.UserContext(), actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("User updated successfully", user))
}

// DeactivateUser is a soft delete.
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.userService.Deactivate(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("User deactivated successfully", nil))
}

func (h *AdminHandler) ListJobs(c *fiber.Ctx) error {
	resp, err := h.jobService.AdminList(c.UserContext(), jobQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Jobs retrieved successfully", resp))
}

func (h *AdminHandler) UpdateJobStatus(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.JobStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	job, err := h.jobService.SetStatus(c.UserContext(), actor, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Job status updated successfully", job))
}

func (h *AdminHandler) DeleteJob(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.jobService.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Job and related applications deleted successfully", nil))
}

func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	q := dto.ApplicationQuery{
		Status:      c.Query("status"),
		JobCategory: c.Query("jobCategory"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}
	resp, err := h.applicationService.AdminList(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Applications retrieved successfully", resp))
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	resp, err := h.statsService.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Dashboard data retrieved successfully", resp))
}

func (h *AdminHandler) Reports(c *fiber.Ctx) error {
	start, err := queryDate(c, "startDate")
	if err != nil {
		return respondError(c, err)
	}
	end, err := queryDate(c, "endDate")
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.statsService.Report(c.UserContext(), dto.ReportRequest{
		Type:      c.Query("type"),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Report generated successfully", report))
}
