package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/reroute-fukuoka/reroute/pkg/api/routes"
)

func NewApp(service routes.PlanService) *fiber.App {
	webApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	webApp.Use(NewLogger())

	webApp.Get("/", routes.Health)

	group := webApp.Group("/api/v1")

	group.Get("health", routes.Health)
	group.Get("version", routes.APIVersion)

	routes.ChallengesRouter(group.Group("/challenges"), service)

	return webApp
}

func SetupServer(listen string, service routes.PlanService) error {
	return NewApp(service).Listen(listen)
}
