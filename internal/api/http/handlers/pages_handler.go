package handlers

import "github.com/gofiber/fiber/v2"

// Page answers a gated page route with a placeholder naming the page. Markup is
// served elsewhere.
func Page(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": name})
	}
}
