package handlers

import (
	"strings"

	"tvicladmin/internal/domain"
	"tvicladmin/internal/log"
	"tvicladmin/internal/repos"
	"tvicladmin/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	Users *repos.UserRepo
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.All()
	if err != nil {
		return fail(c, err)
	}
	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	return jsonOK(c, out)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "bad request body")
	}
	if !validate.Email(req.Email) {
		return jsonErr(c, fiber.StatusBadRequest, "invalid email")
	}
	if strings.TrimSpace(req.Name) == "" {
		return jsonErr(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Phone != "" && !validate.Phone(req.Phone) {
		return jsonErr(c, fiber.StatusBadRequest, "invalid Nigerian phone number")
	}
	if !validate.Password(req.Password) {
		return jsonErr(c, fiber.StatusBadRequest, "password must be 8-64 chars with upper, lower, digit and symbol")
	}
	if req.Role != "USER" && req.Role != "ADMIN" {
		return jsonErr(c, fiber.StatusBadRequest, "role must be USER or ADMIN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return fail(c, err)
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Hash:  string(hash),
		Role:  req.Role,
	}
	if err := h.Users.Create(u); err != nil {
		return jsonErr(c, fiber.StatusConflict, "email already in use")
	}
	log.Audit(c, "admin.user.create", map[string]any{"email": req.Email, "role": req.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userView(u)})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	admin := c.Locals("user").(*domain.User)
	if admin.ID == id {
		return jsonErr(c, fiber.StatusBadRequest, "cannot delete your own account")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "admin.user.delete", map[string]any{"target": id})
	return jsonOK(c, fiber.Map{"deleted": true})
}
