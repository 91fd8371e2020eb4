package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logging emits one line per request with method, path, status and latency.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		log.Printf("%s %s -> %d (%s)", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
