package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole memeriksa apakah klaim JWT memiliki salah satu role yang
// dibutuhkan. Dipasang setelah JWTMiddleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsDari(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"status":  http.StatusForbidden,
				"message": "Anda tidak memiliki hak akses",
				"data":    nil,
			})
		}
	}
}
