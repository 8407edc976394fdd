package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"smartlms/backend/config"
	"smartlms/backend/controllers"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	api := app.Group("/api")

	// Bootstrap routes
	bootstrapController := controllers.NewBootstrapController(db, cfg)
	api.Get("/init", bootstrapController.Init)
	api.Post("/seed", bootstrapController.Seed)

	// User routes
	usersController := controllers.NewUsersController(db, cfg)
	api.Get("/users", usersController.List)
	api.Post("/users", usersController.Create)
	api.Put("/users/:id", usersController.Update)
	api.Delete("/users/:id", usersController.Delete)

	// Course routes
	coursesController := controllers.NewCoursesController(db, cfg)
	api.Get("/courses", coursesController.List)
	api.Post("/courses", coursesController.Create)
	api.Put("/courses/:id", coursesController.Update)
	api.Delete("/courses/:id", coursesController.Delete)

	// Progress routes (upsert by user/course pair)
	progressController := controllers.NewProgressController(db, cfg)
	api.Get("/progress", progressController.List)
	api.Post("/progress", progressController.Upsert)

	// Chat routes (upsert by session id)
	chatsController := controllers.NewChatsController(db, cfg)
	api.Get("/chats", chatsController.List)
	api.Post("/chats", chatsController.Upsert)
}
