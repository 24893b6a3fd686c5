// Package middleware holds the HTTP middleware for the REST surface.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"chatweb/internal/domain"
)

type authClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTAuth validates the bearer token and stores the caller in the request
// context as a domain.UserContext.
func JWTAuth(secret, issuer string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := &authClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			ctx := domain.SetUserContext(c.Request().Context(), &domain.UserContext{
				UserID: claims.Subject,
				Email:  claims.Email,
			})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
