package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/taskbuddy/modules/auth"
	"github.com/gofiber/fiber/v2"
)

type fakeAuthPort struct {
	claims *auth.Claims
	err    error
}

func (f *fakeAuthPort) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return f.claims, f.err
}

func (f *fakeAuthPort) GetUser(context.Context, string) (*auth.GetUserResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAuthPort) LoginHistory(context.Context, string) ([]time.Time, error) {
	return nil, errors.New("not implemented")
}

// setupApp builds a Fiber app with one protected route that echoes the
// authenticated user ID.
func setupApp(port auth.AuthPort) *fiber.App {
	m := &APIModule{authPort: port}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/protected", m.requireAuth, func(c *fiber.Ctx) error {
		return c.SendString(currentUserID(c))
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		port       *fakeAuthPort
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			port:       &fakeAuthPort{},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			port:       &fakeAuthPort{},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer bad-token",
			port:       &fakeAuthPort{err: errors.New("token validation failed")},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer good-token",
			port:       &fakeAuthPort{claims: &auth.Claims{UserID: "user-1"}},
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(tt.port)

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestCurrentUserIDPassesThrough(t *testing.T) {
	app := setupApp(&fakeAuthPort{claims: &auth.Claims{UserID: "user-42"}})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	buf := make([]byte, 16)
	n, _ := resp.Body.Read(buf)
	if got := string(buf[:n]); got != "user-42" {
		t.Errorf("body = %q, want %q", got, "user-42")
	}
}
