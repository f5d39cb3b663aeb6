package http

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Sessions are anonymous: the first visit to /api/auth/user mints a random
// identity, hashes it, and hands it back in a signed cookie. The server never
// stores or returns any PII; ownership checks compare hashed identities only.

type sessionClaims struct {
	jwt.RegisteredClaims
}

// mintIdentity generates a fresh opaque hashed identity.
func mintIdentity() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// userFromCookie validates the session cookie and returns the hashed
// identity, or an error if no valid session exists.
func userFromCookie(c *fiber.Ctx, deps *Dependencies) (string, error) {
	raw := c.Cookies(deps.Auth.CookieName)
	if raw == "" {
		return "", fmt.Errorf("no session cookie")
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(deps.Auth.Secret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session")
	}
	return claims.Subject, nil
}

// issueSession signs a session token for the identity and sets the cookie.
func issueSession(c *fiber.Ctx, deps *Dependencies, userID string) error {
	ttl := time.Duration(deps.Auth.TTLHours) * time.Hour
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(deps.Auth.Secret))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     deps.Auth.CookieName,
		Value:    signed,
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}

// RequireAuth gates workspace endpoints on a valid session.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userFromCookie(c, deps)
		if err != nil {
			return errUnauthorized(c, "sign in required")
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// AuthUserHandler returns the caller's identity, minting an anonymous
// session on first contact. All profile fields are deliberately null.
func AuthUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userFromCookie(c, deps)
		if err != nil {
			userID, err = mintIdentity()
			if err != nil {
				return errInternal(c, "identity generation failed")
			}
			if err := issueSession(c, deps, userID); err != nil {
				return errInternal(c, "session signing failed")
			}
		}

		return c.JSON(fiber.Map{
			"id":              userID,
			"email":           nil,
			"firstName":       nil,
			"lastName":        nil,
			"profileImageUrl": nil,
		})
	}
}
