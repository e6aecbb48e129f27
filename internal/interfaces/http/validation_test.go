package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleID = "3f2b8c1e-7a4d-4e6b-9c2f-1d5e8a7b6c40"

func idApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error { return writeError(c, err) }})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		return c.SendString(id)
	})
	app.Get("/tree", func(c *fiber.Ctx) error {
		root, err := idQuery(c, "root")
		if err != nil {
			return err
		}
		return c.SendString("root=" + root)
	})
	return app
}

func TestIDParamYIDQuery(t *testing.T) {
	cases := []struct {
		path   string
		status int
	}{
		{"/items/" + sampleID, fiber.StatusOK},
		{"/items/abc", fiber.StatusNotFound},
		{"/items/1", fiber.StatusNotFound},
		{"/tree", fiber.StatusOK},
		{"/tree?root=" + sampleID, fiber.StatusOK},
		{"/tree?root=abc", fiber.StatusBadRequest},
	}
	app := idApp()
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
	}
}
