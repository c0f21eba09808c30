package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/internal/administrasi/services"
	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/middlewares"
)

type AntrianController struct {
	Service *services.AntrianService
}

func NewAntrianController(service *services.AntrianService) *AntrianController {
	return &AntrianController{Service: service}
}

type buatAntrianRequest struct {
	IDKunjungan int `json:"id_kunjungan" validate:"required"`
}

// BuatAntrian menerbitkan tiket antrian untuk kunjungan yang belum
// memilikinya.
func (ac *AntrianController) BuatAntrian(c echo.Context) error {
	var req buatAntrianRequest
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

	tanggal, err := parseTanggal(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Format tanggal harus YYYY-MM-DD",
			"data":    nil,
		})
	}

	antrian, err := ac.Service.BuatAntrian(req.IDKunjungan, tanggal)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Antrian berhasil dibuat",
		"data":    antrian,
	})
}

// PanggilBerikutnya memanggil antrian menunggu bernomor terkecil pada
// tanggal yang diberikan langsung ke meja pemeriksaan.
func (ac *AntrianController) PanggilBerikutnya(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	tanggal, err := parseTanggal(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Format tanggal harus YYYY-MM-DD",
			"data":    nil,
		})
	}

	antrian, err := ac.Service.PanggilBerikutnya(tanggal, claims.IDKaryawan)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Antrian berhasil dipanggil",
		"data":    antrian,
	})
}

// PanggilAntrian memanggil satu antrian lewat pengeras suara (status
// dipanggil) tanpa mengubah status kunjungan.
func (ac *AntrianController) PanggilAntrian(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	idAntrian, ok := atoiParam(c, "id_antrian")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_antrian harus berupa angka positif",
			"data":    nil,
		})
	}

	antrian, err := ac.Service.PanggilAntrian(idAntrian, claims.IDKaryawan)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Antrian berhasil dipanggil",
		"data":    antrian,
	})
}

// BatalkanAntrian membatalkan antrian yang masih menunggu atau dipanggil.
func (ac *AntrianController) BatalkanAntrian(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	idAntrian, ok := atoiParam(c, "id_antrian")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_antrian harus berupa angka positif",
			"data":    nil,
		})
	}

	if err := ac.Service.BatalkanAntrian(idAntrian, claims.IDKaryawan); err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Antrian berhasil dibatalkan",
		"data":    nil,
	})
}

// StatusAntrian menampilkan potret layar antrian: yang sedang dilayani,
// yang berikutnya, dan jumlah menunggu. Endpoint ini publik.
func (ac *AntrianController) StatusAntrian(c echo.Context) error {
	tanggal, err := parseTanggal(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Format tanggal harus YYYY-MM-DD",
			"data":    nil,
		})
	}

	ringkasan, err := ac.Service.StatusAntrian(tanggal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve data: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Status antrian berhasil diambil",
		"data":    ringkasan,
	})
}
