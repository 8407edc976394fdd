package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"smartlms/backend/config"
	"smartlms/backend/models"
	"smartlms/backend/utils"
)

type ChatsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewChatsController(db *gorm.DB, cfg *config.Config) *ChatsController {
	return &ChatsController{DB: db, Cfg: cfg}
}

// List returns every chat session.
func (hc *ChatsController) List(c *fiber.Ctx) error {
	var chats []models.ChatSession
	if err := hc.DB.Find(&chats).Error; err != nil {
		return utils.InternalServerError(c, "Could not query chats")
	}
	return c.JSON(chats)
}

// Upsert replaces the session with the posted id, or inserts it. The client
// guarantees one session per (courseId, studentId) pair and always posts the
// full message history.
func (hc *ChatsController) Upsert(c *fiber.Ctx) error {
	var session models.ChatSession
	if err := c.BodyParser(&session); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if session.ID == "" {
		return utils.BadRequest(c, "Missing session id")
	}

	var existing models.ChatSession
	err := hc.DB.Where("id = ?", session.ID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := hc.DB.Create(&session).Error; err != nil {
			return utils.Error(c, fiber.StatusBadRequest, err)
		}
	case err != nil:
		return utils.InternalServerError(c, "Could not query chats")
	default:
		if err := hc.DB.Save(&session).Error; err != nil {
			return utils.Error(c, fiber.StatusBadRequest, err)
		}
	}

	return c.JSON(session)
}
