package api

import (
	"github.com/example/taskbuddy/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// register handles POST /api/v1/auth/register.
func (m *APIModule) register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Username == "" || body.Email == "" || body.Password == "" {
		return badRequest(c, "Username, email and password are required")
	}

	req := auth.RegisterRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	}
	var resp auth.RegisterResponse
	if err := call(c.Context(), m.authC, "register", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// login handles POST /api/v1/auth/login.
func (m *APIModule) login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	req := auth.LoginRequest{Email: body.Email, Password: body.Password}
	var resp auth.LoginResponse
	if err := call(c.Context(), m.authC, "login", &req, &resp); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid credentials",
		})
	}
	return c.JSON(resp)
}

// refresh handles POST /api/v1/auth/refresh.
func (m *APIModule) refresh(c *fiber.Ctx) error {
	var body refreshRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	req := auth.RefreshRequest{RefreshToken: body.RefreshToken}
	var resp auth.RefreshResponse
	if err := call(c.Context(), m.authC, "refresh-token", &req, &resp); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}
	return c.JSON(resp)
}

// me handles GET /api/v1/auth/me.
func (m *APIModule) me(c *fiber.Ctx) error {
	req := auth.GetUserRequest{UserID: currentUserID(c)}
	var resp auth.GetUserResponse
	if err := call(c.Context(), m.authC, "get-user", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// loginHistory handles GET /api/v1/auth/login-history.
func (m *APIModule) loginHistory(c *fiber.Ctx) error {
	req := auth.LoginHistoryRequest{UserID: currentUserID(c)}
	var resp auth.LoginHistoryResponse
	if err := call(c.Context(), m.authC, "login-history", &req, &resp); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}
