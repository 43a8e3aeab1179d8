package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/pkg/jwt"
)

// Locals keys para UserID y RoleID en Fiber.
const (
	LocalUserID = "user_id"
	LocalRoleID = "role_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y RoleID a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, roleID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRoleID, roleID)
		return c.Next()
	}
}

// OptionalAuthMiddleware extrae UserID y RoleID si viene un Bearer Token
// válido, pero deja pasar sin token. Para rutas con acceso público por código
// de verificación.
func OptionalAuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Next()
		}
		userID, roleID, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return c.Next()
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRoleID, roleID)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles listados. Se monta después de
// AuthMiddleware.
func RequireRole(roleIDs ...int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleID := GetRoleID(c)
		for _, id := range roleIDs {
			if roleID == id {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRoleID devuelve el RoleID del contexto (después del middleware de auth).
func GetRoleID(c *fiber.Ctx) int {
	v := c.Locals(LocalRoleID)
	if v == nil {
		return 0
	}
	n, _ := v.(int)
	return n
}
