package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/flags.  Returns the evaluated flag set for
// the authenticated user so clients can toggle UI without redeploying.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	return c.JSON(fiber.Map{
		"flags": s.flags.Snapshot(userID),
	})
}
