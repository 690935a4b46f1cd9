package api

import (
	"github.com/example/taskbuddy/modules/dashboard"
	"github.com/example/taskbuddy/modules/sweep"
	"github.com/gofiber/fiber/v2"
)

// getDashboard handles GET /api/v1/dashboard.
func (m *APIModule) getDashboard(c *fiber.Ctx) error {
	req := dashboard.DashboardRequest{UserID: currentUserID(c)}
	var resp dashboard.DashboardResponse
	if err := call(c.Context(), m.dashboardC, "get", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// runSweep handles POST /api/v1/admin/sweep: an on-demand status sweep.
func (m *APIModule) runSweep(c *fiber.Ctx) error {
	req := sweep.RunNowRequest{}
	var resp sweep.Result
	if err := call(c.Context(), m.sweepC, "run-now", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
