package controllers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/internal/manajemen/models"
	"github.com/c14220110/klinik-backend/internal/manajemen/services"
	"github.com/c14220110/klinik-backend/pkg/utils"
)

var validate = validator.New()

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service}
}

// Login memverifikasi kredensial karyawan dan menerbitkan token JWT.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}

	karyawan, err := ac.Service.Authenticate(req.Username, req.Password)
	if err != nil {
		if err == services.ErrKredensialSalah {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"status":  http.StatusUnauthorized,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to authenticate: " + err.Error(),
			"data":    nil,
		})
	}

	exp := time.Now().Add(12 * time.Hour)
	token, err := utils.GenerateJWTToken(karyawan.ID, karyawan.Nama, karyawan.Role, karyawan.Username, exp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to generate token: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Login berhasil",
		"data": map[string]interface{}{
			"token":       token,
			"id_karyawan": karyawan.ID,
			"nama":        karyawan.Nama,
			"username":    karyawan.Username,
			"role":        karyawan.Role,
		},
	})
}
