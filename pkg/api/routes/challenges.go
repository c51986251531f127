package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/reroute-fukuoka/reroute/pkg/challenges"
	"github.com/rs/zerolog/log"
)

// PlanService is the part of challenges.Service the API needs.
type PlanService interface {
	Plans(ctx context.Context) ([]*challenges.Plan, error)
	Plan(ctx context.Context, id string) (*challenges.Plan, error)
}

type challengesHandler struct {
	service PlanService
}

// ChallengesRouter serves planned challenges, falling back to the canned
// ones whenever the planner has nothing to offer. A nil service serves the
// canned challenges only.
func ChallengesRouter(router fiber.Router, service PlanService) {
	handler := &challengesHandler{service: service}

	router.Get("/", handler.listChallenges)
	router.Get("/:identifier", handler.getChallenge)
}

func (h *challengesHandler) listChallenges(c *fiber.Ctx) error {
	plans := challenges.Fallback()

	if h.service != nil {
		planned, err := h.service.Plans(c.UserContext())
		if err == nil {
			plans = planned
		} else {
			log.Warn().Err(err).Msg("Serving fallback challenge list")
		}
	}

	plansReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, plans)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce challenges",
		})
	}

	return c.JSON(plansReduced)
}

func (h *challengesHandler) getChallenge(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	var plan *challenges.Plan
	if h.service != nil {
		planned, err := h.service.Plan(c.UserContext(), identifier)
		if err == nil {
			plan = planned
		} else {
			log.Debug().Err(err).Str("challenge", identifier).Msg("Looking up fallback challenge")
		}
	}

	if plan == nil {
		if fallback, exists := challenges.FallbackPlan(identifier); exists {
			plan = fallback
		}
	}

	if plan == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Challenge matching identifier",
		})
	}

	planReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, plan)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce challenge",
		})
	}

	return c.JSON(planReduced)
}
