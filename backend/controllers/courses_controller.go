package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/utils"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// List returns every course record.
func (cc *CoursesController) List(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query courses")
	}
	return c.JSON(courses)
}

// Create stores a new course. The client assigns the id.
func (cc *CoursesController) Create(c *fiber.Ctx) error {
	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var existing models.Course
	if err := cc.DB.First(&existing, course.ID).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, errors.New("course id already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query courses")
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusConflict, err)
		}
		return utils.Error(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(course)
}

// Update replaces the record for the id in the path with the posted entity.
func (cc *CoursesController) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.BadRequest(c, "Invalid course id")
	}

	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	course.ID = id

	var existing models.Course
	if err := cc.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query courses")
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(course)
}

// Delete removes the record for the id in the path. Enrollment cleanup is
// the application controller's responsibility, not the store's.
func (cc *CoursesController) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.BadRequest(c, "Invalid course id")
	}

	if err := cc.DB.Delete(&models.Course{}, id).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}
	return utils.Success(c, fiber.StatusOK, "Course deleted")
}
