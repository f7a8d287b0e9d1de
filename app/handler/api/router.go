package handler

import (
	"inventory-service/app/middleware"
	"inventory-service/config"

	"github.com/gofiber/fiber/v2"
)

func SetupRouter(app *fiber.App, productHandler *ProductHandler, cfg *config.Config) {
	app.Get("/inventory-service/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	api := app.Group("/inventory-service").Use(middleware.Auth(cfg.Jwt.SecretKey))

	api.Get("/products", productHandler.GetList)
	api.Post("/products", productHandler.Create)
	api.Get("/products/:id", productHandler.GetByID)
	api.Put("/products/:id", productHandler.Update)
	api.Delete("/products/:id", productHandler.Delete)
}
