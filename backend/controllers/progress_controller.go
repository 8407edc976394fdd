package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/utils"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// List returns every progress record.
func (pc *ProgressController) List(c *fiber.Ctx) error {
	var progress []models.Progress
	if err := pc.DB.Find(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not query progress")
	}
	return c.JSON(progress)
}

// Upsert replaces the record for (userId, courseId) with the posted entity,
// or inserts it if the pair has none yet. The posted value is complete;
// nothing is merged field by field.
func (pc *ProgressController) Upsert(c *fiber.Ctx) error {
	var progress models.Progress
	if err := c.BodyParser(&progress); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var existing models.Progress
	err := pc.DB.
		Where("user_id = ? AND course_id = ?", progress.UserID, progress.CourseID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := pc.DB.Create(&progress).Error; err != nil {
			return utils.Error(c, fiber.StatusBadRequest, err)
		}
	case err != nil:
		return utils.InternalServerError(c, "Could not query progress")
	default:
		if err := pc.DB.Save(&progress).Error; err != nil {
			return utils.Error(c, fiber.StatusBadRequest, err)
		}
	}

	return c.JSON(progress)
}
