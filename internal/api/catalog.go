package api

import (
	"errors"

	"placement-advisor/internal/advisory"
	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/common/validation"
	"placement-advisor/internal/models"

	"github.com/gofiber/fiber/v3"
)

// Role list orderings accepted in ?sort=.
const (
	sortCatalog = ""
	sortDemand  = "demand"
	sortGrowth  = "growth"
)

var errCatalogUnavailable = errors.New("course and role catalog failed to load")

// CoursesResponse answers GET /api/v1/courses?recommendation=.
type CoursesResponse struct {
	Recommendation string          `json:"recommendation"`
	Courses        []models.Course `json:"courses"`
}

// TracksResponse answers GET /api/v1/courses.
type TracksResponse struct {
	Tracks []models.CourseTrack `json:"tracks"`
}

type RolesResponse struct {
	Roles []models.CareerRole `json:"roles"`
}

func (s *Server) requireCatalog() (*advisory.Catalog, error) {
	if s.catalog == nil {
		return nil, apperrors.NewInternalError(errCatalogUnavailable)
	}
	return s.catalog, nil
}

func (s *Server) courses(c fiber.Ctx) error {
	cat, err := s.requireCatalog()
	if err != nil {
		return err
	}

	if rec := c.Query("recommendation"); rec != "" {
		return c.Status(fiber.StatusOK).JSON(CoursesResponse{
			Recommendation: rec,
			Courses:        cat.CoursesFor(rec),
		})
	}
	return c.Status(fiber.StatusOK).JSON(TracksResponse{Tracks: cat.Tracks()})
}

func (s *Server) coursesByCategory(c fiber.Ctx) error {
	cat, err := s.requireCatalog()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(cat.CoursesByCategory())
}

func (s *Server) roles(c fiber.Ctx) error {
	cat, err := s.requireCatalog()
	if err != nil {
		return err
	}

	var roles []models.CareerRole
	switch order := c.Query("sort"); order {
	case sortCatalog:
		roles = cat.Roles()
	case sortDemand:
		roles = cat.RolesByDemand()
	case sortGrowth:
		roles = cat.RolesByGrowth()
	default:
		return apperrors.NewInvalidRequestError("sort must be one of: demand, growth").
			WithMetadata("sort", order)
	}
	return c.Status(fiber.StatusOK).JSON(RolesResponse{Roles: roles})
}

func (s *Server) lookupRole(c fiber.Ctx) (models.CareerRole, error) {
	cat, err := s.requireCatalog()
	if err != nil {
		return models.CareerRole{}, err
	}
	id := c.Params("id")
	role, ok := cat.Role(id)
	if !ok {
		return models.CareerRole{}, apperrors.NewNotFoundError("role", id)
	}
	return role, nil
}

func (s *Server) role(c fiber.Ctx) error {
	role, err := s.lookupRole(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(role)
}

// roleFit scores a posted profile against one role's skill requirements.
func (s *Server) roleFit(c fiber.Ctx) error {
	role, err := s.lookupRole(c)
	if err != nil {
		return err
	}
	p, err := validation.ValidateProfileJSON(c.Body())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(advisory.FitRole(role, p))
}
