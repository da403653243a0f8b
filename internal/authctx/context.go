// Package authctx reads the authenticated caller from a Fiber context.
package authctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userKey  = "user"
	adminKey = "is_admin"
)

var ErrNoIdentity = errors.New("no authenticated user in context")

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals(userKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoIdentity
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// GetUID returns the identity subject of the caller.
func GetUID(c *fiber.Ctx) (string, error) {
	claims, err := claims(c)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}

// UID is GetUID without the error, for handlers behind JWTProtected.
func UID(c *fiber.Ctx) string {
	uid, _ := GetUID(c)
	return uid
}

func GetEmail(c *fiber.Ctx) string {
	claims, err := claims(c)
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func MarkAdmin(c *fiber.Ctx) {
	c.Locals(adminKey, true)
}

func IsAdmin(c *fiber.Ctx) bool {
	v, _ := c.Locals(adminKey).(bool)
	return v
}
