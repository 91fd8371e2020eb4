package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler serves the liveness endpoints.
type HealthHandler struct {
	db *mongo.Client
}

func NewHealthHandler(db *mongo.Client) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/", h.root)
	r.Get("/health", h.health)
}

// root mirrors the health check so an unadorned GET / answers something
// useful.
func (h *HealthHandler) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "First-PR API is running.",
	})
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"db":     h.checkDB(),
	})
}

func (h *HealthHandler) checkDB() string {
	if h.db == nil {
		return "not_configured"
	}
	if err := h.db.Ping(context.Background(), nil); err != nil {
		return "error"
	}
	return "connected"
}
