package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/stybayev/graduate-work/internal/auth/dto"
	"github.com/stybayev/graduate-work/internal/auth/middleware"
	"github.com/stybayev/graduate-work/internal/auth/service"
)

var validate = validator.New()

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"login": user.Login,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	input.UserAgent = string(c.Request().Header.UserAgent())

	tokenPair, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

// Refresh rotates the token pair presented via the refresh-token gate.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	claims := middleware.RefreshClaims(c)

	tokens, err := h.userService.Refresh(c.UserContext(), claims)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.RefreshClaims(c)

	if err := h.userService.Logout(c.UserContext(), claims); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(true)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.AccessClaims(c)

	details, err := h.userService.GetDetails(c.UserContext(), claims.Subject)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(details)
}

func (h *AuthHandler) UpdateCredentials(c *fiber.Ctx) error {
	claims := middleware.AccessClaims(c)

	var input dto.UpdateCredentialsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	user, err := h.userService.UpdateCredentials(c.UserContext(), claims.Subject, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *AuthHandler) LoginHistory(c *fiber.Ctx) error {
	claims := middleware.AccessClaims(c)

	pageSize := c.QueryInt("page_size", 20)
	pageNumber := c.QueryInt("page_number", 1)

	history, err := h.userService.GetLoginHistory(c.UserContext(), claims.Subject, pageSize, pageNumber)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(history)
}
