package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/middlewares"
	"github.com/c14220110/klinik-backend/internal/farmasi/models"
	"github.com/c14220110/klinik-backend/internal/farmasi/services"
	"github.com/c14220110/klinik-backend/ws"
)

var validate = validator.New()

type ResepController struct {
	Service *services.ResepService
	Hub     *ws.Hub
}

func NewResepController(service *services.ResepService, hub *ws.Hub) *ResepController {
	return &ResepController{Service: service, Hub: hub}
}

// BuatResep membuat resep baru dan memesan stok setiap barisnya. Event stok
// rendah disiarkan ke display farmasi setelah transaksi berhasil.
func (rc *ResepController) BuatResep(c echo.Context) error {
	claims, ok := middlewares.ClaimsDari(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}

	var req models.ResepRequest
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

	tanggal := time.Now()
	if raw := c.QueryParam("tanggal"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Format tanggal harus YYYY-MM-DD",
				"data":    nil,
			})
		}
		tanggal = parsed
	}

	resep, stokRendah, err := rc.Service.BuatResep(req, tanggal)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	if rc.Hub != nil && len(stokRendah) > 0 {
		go rc.Hub.SiarkanStokRendah(stokRendah)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Resep berhasil dibuat",
		"data": map[string]interface{}{
			"resep":       resep,
			"stok_rendah": stokRendah,
		},
	})
}

type ubahResepRequest struct {
	Details []models.ResepDetailRequest `json:"details" validate:"required,min=1,dive"`
}

// UbahResep mengganti seluruh baris resep yang belum diambil.
func (rc *ResepController) UbahResep(c echo.Context) error {
	idResep, err := strconv.Atoi(c.QueryParam("id_resep"))
	if err != nil || idResep <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_resep harus berupa angka positif",
			"data":    nil,
		})
	}

	var req ubahResepRequest
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

	resep, stokRendah, err := rc.Service.UbahResep(idResep, req.Details)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	if rc.Hub != nil && len(stokRendah) > 0 {
		go rc.Hub.SiarkanStokRendah(stokRendah)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Resep berhasil diubah",
		"data": map[string]interface{}{
			"resep":       resep,
			"stok_rendah": stokRendah,
		},
	})
}

// BatalkanResep membatalkan resep yang belum diambil dan mengembalikan
// stok seluruh barisnya.
func (rc *ResepController) BatalkanResep(c echo.Context) error {
	idResep, err := strconv.Atoi(c.QueryParam("id_resep"))
	if err != nil || idResep <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_resep harus berupa angka positif",
			"data":    nil,
		})
	}

	if err := rc.Service.BatalkanResep(idResep); err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Resep berhasil dibatalkan",
		"data":    nil,
	})
}

// UbahStatusPengambilan membalik status pengambilan resep di loket farmasi.
func (rc *ResepController) UbahStatusPengambilan(c echo.Context) error {
	idResep, err := strconv.Atoi(c.QueryParam("id_resep"))
	if err != nil || idResep <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_resep harus berupa angka positif",
			"data":    nil,
		})
	}

	resep, err := rc.Service.UbahStatusPengambilan(idResep)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Status pengambilan berhasil diubah",
		"data":    resep,
	})
}

// GetResep menampilkan kepala resep beserta barisnya.
func (rc *ResepController) GetResep(c echo.Context) error {
	idResep, err := strconv.Atoi(c.QueryParam("id_resep"))
	if err != nil || idResep <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_resep harus berupa angka positif",
			"data":    nil,
		})
	}

	resep, err := rc.Service.GetResepByID(idResep)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Resep berhasil diambil",
		"data":    resep,
	})
}
