package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// currentUserID reads the authenticated principal that middleware.AuthRequired
// stored on the request. Handlers behind that middleware can rely on it being
// present.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("user_id").(uint)
	return userID
}

// parseIDParam parses a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
