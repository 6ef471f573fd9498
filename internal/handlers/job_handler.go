package handlers

import (
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/services"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	jobService   *services.JobService
	statsService *services.StatsService
}

func NewJobHandler(jobService *services.JobService, statsService *services.StatsService) *JobHandler {
	return &JobHandler{jobService: jobService, statsService: statsService}
}

func jobQuery(c *fiber.Ctx) dto.JobQuery {
	return dto.JobQuery{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		Location:   c.Query("location"),
		JobType:    c.Query("jobType"),
		SalaryType: c.Query("salaryType"),
		Status:     c.Query("status"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
}

// List is public and only ever shows active jobs.
func (h *JobHandler) List(c *fiber.Ctx) error {
	resp, err := h.jobService.List(c.UserContext(), jobQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Jobs retrieved successfully", resp))
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	job, err := h.jobService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Job retrieved successfully", job))
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.JobRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	job, err := h.jobService.Create(c.UserContext(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("Job created successfully", job))
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.JobUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	job, err := h.jobService.Update(c.UserContext(), actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Job updated successfully", job))
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
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
	return c.JSON(dto.OK("Job deleted successfully", nil))
}

func (h *JobHandler) Mine(c *fiber.Ctx) error {
	actor, err := identity.Get(c)
	if err != nil {
		return respondError(c, err)
	}
	resp, err := h.jobService.Mine(c.UserContext(), actor, jobQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Jobs retrieved successfully", resp))
}

func (h *JobHandler) Categories(c *fiber.Ctx) error {
	resp, err := h.statsService.JobCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Job categories retrieved successfully", resp))
}

func (h *JobHandler) Stats(c *fiber.Ctx) error {
	resp, err := h.statsService.JobStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK("Job statistics retrieved successfully", resp))
}
