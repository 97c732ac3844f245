package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Behnamfe76/expense-ledger/pkg/util"
)

const operatorKey = "auth_operator"

// AuthMiddleware guards mutating routes with operator bearer tokens.
// A nil *AuthMiddleware lets every request through.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if m == nil || m.tokens == nil {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Falta el encabezado Authorization")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("Encabezado Authorization inválido")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("Token inválido")
	}

	c.Locals(operatorKey, claims.Operator)
	return c.Next()
}

// OperatorFromContext retrieves the authenticated operator, if any.
func OperatorFromContext(c *fiber.Ctx) (string, bool) {
	operator, ok := c.Locals(operatorKey).(string)
	return operator, ok && operator != ""
}
