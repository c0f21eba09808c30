package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/administrasi/services"
	"github.com/c14220110/klinik-backend/internal/common/errs"
)

var validate = validator.New()

// parseTanggal membaca query param tanggal (YYYY-MM-DD); kosong berarti
// hari ini.
func parseTanggal(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("tanggal")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

type PendaftaranController struct {
	Service *services.PendaftaranService
}

func NewPendaftaranController(service *services.PendaftaranService) *PendaftaranController {
	return &PendaftaranController{Service: service}
}

type registerPasienRequest struct {
	Nama         string `json:"nama" validate:"required"`
	TanggalLahir string `json:"tanggal_lahir" validate:"required"`
	JenisKelamin string `json:"jenis_kelamin" validate:"required"`
	Nik          string `json:"nik" validate:"required"`
	NoTelp       string `json:"no_telp"`
	Alamat       string `json:"alamat"`
}

// RegisterPasien mendaftarkan pasien baru sekaligus membuat kunjungan dan
// nomor antrian untuk tanggal yang diberikan.
func (pc *PendaftaranController) RegisterPasien(c echo.Context) error {
	var req registerPasienRequest
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

	pasien := models.Pasien{
		Nama:         req.Nama,
		TanggalLahir: req.TanggalLahir,
		JenisKelamin: req.JenisKelamin,
		Nik:          req.Nik,
		NoTelp:       req.NoTelp,
		Alamat:       req.Alamat,
	}

	idPasien, kunjungan, antrian, err := pc.Service.RegisterPasienWithKunjungan(pasien, tanggal)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Pasien berhasil didaftarkan",
		"data": map[string]interface{}{
			"id_pasien": idPasien,
			"kunjungan": kunjungan,
			"antrian":   antrian,
		},
	})
}

type buatKunjunganRequest struct {
	IDPasien int `json:"id_pasien" validate:"required"`
}

// BuatKunjungan membuat kunjungan baru untuk pasien yang sudah terdaftar.
func (pc *PendaftaranController) BuatKunjungan(c echo.Context) error {
	var req buatKunjunganRequest
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

	kunjungan, antrian, err := pc.Service.BuatKunjungan(req.IDPasien, tanggal)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Kunjungan berhasil dibuat",
		"data": map[string]interface{}{
			"kunjungan": kunjungan,
			"antrian":   antrian,
		},
	})
}

// ListAntrianHariIni menampilkan seluruh antrian satu tanggal untuk layar
// administrasi.
func (pc *PendaftaranController) ListAntrianHariIni(c echo.Context) error {
	tanggal, err := parseTanggal(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Format tanggal harus YYYY-MM-DD",
			"data":    nil,
		})
	}

	list, err := pc.Service.ListAntrianHariIni(tanggal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve data: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Data antrian berhasil diambil",
		"data":    list,
	})
}

// atoiParam membaca query param integer wajib.
func atoiParam(c echo.Context, nama string) (int, bool) {
	nilai, err := strconv.Atoi(c.QueryParam(nama))
	if err != nil || nilai <= 0 {
		return 0, false
	}
	return nilai, true
}
