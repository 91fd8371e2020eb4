package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/first-pr/server/internal/config"
	"github.com/first-pr/server/internal/models"
	"github.com/first-pr/server/internal/service"
)

// MatchHandler wires HTTP → MatchService. The deployment mode decides
// which request shape POST /matches accepts: store-backed (rank what the
// scanner ingested) or live-scan (rank the repositories named in the
// request). Exactly one is active per deployment.
type MatchHandler struct {
	svc  service.MatchService
	mode string
}

// NewMatchHandler returns a handler instance for the given mode.
func NewMatchHandler(svc service.MatchService, mode string) *MatchHandler {
	return &MatchHandler{svc: svc, mode: mode}
}

// Register mounts POST /matches on the given router group.
func (h *MatchHandler) Register(r fiber.Router) {
	r.Post("/matches", h.matches)
}

func (h *MatchHandler) matches(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.UserProfile) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_profile is required")
	}

	var (
		resp models.MatchResponse
		err  error
	)
	switch h.mode {
	case config.ModeLive:
		if len(req.ReposToScan) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "repos_to_scan is required in live-scan mode")
		}
		resp, err = h.svc.MatchLive(c.UserContext(), req.UserProfile, req.ReposToScan)
	default:
		if len(req.ReposToScan) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "repos_to_scan is not accepted in store-backed mode")
		}
		resp, err = h.svc.MatchFromStore(c.UserContext(), req.UserProfile)
	}

	if err != nil {
		if errors.Is(err, service.ErrNoIssues) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(resp)
}
