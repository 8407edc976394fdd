package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/seed"
	"smartlms/backend/utils"
)

type BootstrapController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewBootstrapController(db *gorm.DB, cfg *config.Config) *BootstrapController {
	return &BootstrapController{DB: db, Cfg: cfg}
}

// Init returns all four collections in one response so a client can hydrate
// its in-memory state with a single round trip.
func (bc *BootstrapController) Init(c *fiber.Ctx) error {
	var (
		users    []models.User
		courses  []models.Course
		progress []models.Progress
		chats    []models.ChatSession
	)

	if err := bc.DB.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query users")
	}
	if err := bc.DB.Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query courses")
	}
	if err := bc.DB.Find(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not query progress")
	}
	if err := bc.DB.Find(&chats).Error; err != nil {
		return utils.InternalServerError(c, "Could not query chats")
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"courses":  courses,
		"progress": progress,
		"chats":    chats,
	})
}

// Seed replaces users, courses and progress with the posted bootstrap
// dataset. Chat sessions are left alone. Two clients racing to seed an empty
// store is expected; a duplicate-key failure means the other writer won and
// is reported as success.
func (bc *BootstrapController) Seed(c *fiber.Ctx) error {
	var payload seed.Dataset
	if err := c.BodyParser(&payload); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&models.Course{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&models.Progress{}).Error; err != nil {
			return err
		}

		if len(payload.Users) > 0 {
			if err := tx.Create(&payload.Users).Error; err != nil {
				return err
			}
		}
		if len(payload.Courses) > 0 {
			if err := tx.Create(&payload.Courses).Error; err != nil {
				return err
			}
		}
		if len(payload.Progress) > 0 {
			if err := tx.Create(&payload.Progress).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Success(c, fiber.StatusOK, "Database seeded concurrently")
		}
		return utils.Error(c, fiber.StatusBadRequest, err)
	}

	return utils.Success(c, fiber.StatusOK, "Database seeded")
}
