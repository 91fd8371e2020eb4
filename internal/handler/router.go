package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/first-pr/server/internal/service"
)

// RegisterRoutes mounts every endpoint on the app.
func RegisterRoutes(app *fiber.App,
	matchSvc service.MatchService,
	mode string,
	db *mongo.Client,
) {
	NewMatchHandler(matchSvc, mode).Register(app)
	NewHealthHandler(db).Register(app)
}
