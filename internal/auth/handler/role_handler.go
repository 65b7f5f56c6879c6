package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stybayev/graduate-work/internal/auth/dto"
	"github.com/stybayev/graduate-work/internal/auth/service"
)

type RoleHandler struct {
	roleService *service.RoleService
}

func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var input dto.RoleInput
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

	role, err := h.roleService.Create(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RoleOutput{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
	})
}

func (h *RoleHandler) Get(c *fiber.Ctx) error {
	role, err := h.roleService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dto.RoleOutput{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
	})
}

func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var input dto.RoleUpdateInput
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

	role, err := h.roleService.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dto.RoleOutput{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
	})
}

func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	if err := h.roleService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "role deleted",
	})
}

func (h *RoleHandler) List(c *fiber.Ctx) error {
	roles, err := h.roleService.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(roles)
}

func (h *RoleHandler) Assign(c *fiber.Ctx) error {
	if err := h.roleService.Assign(c.UserContext(), c.Params("id"), c.Params("roleID")); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "role assigned",
	})
}

func (h *RoleHandler) Remove(c *fiber.Ctx) error {
	if err := h.roleService.Remove(c.UserContext(), c.Params("id"), c.Params("roleID")); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "role removed",
	})
}

func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	perms, err := h.roleService.GetPermissions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(perms)
}
