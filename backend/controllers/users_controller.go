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

type UsersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUsersController(db *gorm.DB, cfg *config.Config) *UsersController {
	return &UsersController{DB: db, Cfg: cfg}
}

// List returns every user record.
func (uc *UsersController) List(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query users")
	}
	return c.JSON(users)
}

// Create stores a new user. The client assigns the id.
func (uc *UsersController) Create(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var existing models.User
	if err := uc.DB.First(&existing, user.ID).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, errors.New("user id already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query users")
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusConflict, err)
		}
		return utils.Error(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(user)
}

// Update replaces the record for the id in the path with the posted entity.
func (uc *UsersController) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	user.ID = id

	var existing models.User
	if err := uc.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query users")
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err)
	}
	return c.JSON(user)
}

// Delete removes the record for the id in the path. Progress and chat
// sessions referencing the user are left in place as historical records.
func (uc *UsersController) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	if err := uc.DB.Delete(&models.User{}, id).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete user")
	}
	return utils.Success(c, fiber.StatusOK, "User deleted")
}
