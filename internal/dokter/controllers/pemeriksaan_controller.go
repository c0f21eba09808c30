package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/middlewares"
	"github.com/c14220110/klinik-backend/internal/dokter/models"
	"github.com/c14220110/klinik-backend/internal/dokter/services"
)

var validate = validator.New()

type PemeriksaanController struct {
	Service *services.PemeriksaanService
}

func NewPemeriksaanController(service *services.PemeriksaanService) *PemeriksaanController {
	return &PemeriksaanController{Service: service}
}

// MulaiPemeriksaan menandai antrian sedang diperiksa oleh dokter yang login.
func (pc *PemeriksaanController) MulaiPemeriksaan(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	idAntrian, err := strconv.Atoi(c.QueryParam("id_antrian"))
	if err != nil || idAntrian <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_antrian harus berupa angka positif",
			"data":    nil,
		})
	}

	antrian, err := pc.Service.MulaiPemeriksaan(idAntrian, claims.IDKaryawan)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Pemeriksaan dimulai",
		"data":    antrian,
	})
}

// SelesaikanPemeriksaan menutup antrian dan kunjungan tanpa rekam medis
// (pasien batal diperiksa lebih lanjut, rujukan, dan sebagainya).
func (pc *PemeriksaanController) SelesaikanPemeriksaan(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	idAntrian, err := strconv.Atoi(c.QueryParam("id_antrian"))
	if err != nil || idAntrian <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_antrian harus berupa angka positif",
			"data":    nil,
		})
	}

	antrian, err := pc.Service.SelesaikanPemeriksaan(idAntrian, claims.IDKaryawan)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Pemeriksaan diselesaikan",
		"data":    antrian,
	})
}

// SimpanRekamMedis menulis rekam medis dan menutup kunjungan dalam satu
// langkah. Dokter penulis diambil dari klaim JWT.
func (pc *PemeriksaanController) SimpanRekamMedis(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	var req models.RekamMedisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}
	req.IDDokter = claims.IDKaryawan
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": err.Error(),
			"data":    nil,
		})
	}

	rekam, err := pc.Service.SimpanRekamMedis(req)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Rekam medis berhasil disimpan",
		"data":    rekam,
	})
}

// RiwayatPasien menampilkan riwayat kunjungan dan rekam medis satu pasien.
func (pc *PemeriksaanController) RiwayatPasien(c echo.Context) error {
	idPasien, err := strconv.Atoi(c.QueryParam("id_pasien"))
	if err != nil || idPasien <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_pasien harus berupa angka positif",
			"data":    nil,
		})
	}

	riwayat, err := pc.Service.GetRiwayatByPasien(idPasien)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve data: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Riwayat pasien berhasil diambil",
		"data":    riwayat,
	})
}
