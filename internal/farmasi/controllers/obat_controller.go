package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/farmasi/models"
	"github.com/c14220110/klinik-backend/internal/farmasi/services"
)

type ObatController struct {
	Service *services.ObatService
}

func NewObatController(service *services.ObatService) *ObatController {
	return &ObatController{Service: service}
}

// TambahObat menambahkan obat baru ke katalog.
func (oc *ObatController) TambahObat(c echo.Context) error {
	var req models.ObatRequest
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

	obat, err := oc.Service.TambahObat(req)
	if err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"status":  http.StatusCreated,
		"message": "Obat berhasil ditambahkan",
		"data":    obat,
	})
}

// GetObatList menampilkan daftar obat dengan pencarian nama dan pagination.
func (oc *ObatController) GetObatList(c echo.Context) error {
	q := c.QueryParam("q")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))

	list, err := oc.Service.GetObatList(q, limit, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve data: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Data obat berhasil diambil",
		"data":    list,
	})
}

type tambahStokRequest struct {
	IDObat int `json:"id_obat" validate:"required"`
	Jumlah int `json:"jumlah" validate:"required,gt=0"`
}

// TambahStok menambah stok obat (restock gudang).
func (oc *ObatController) TambahStok(c echo.Context) error {
	var req tambahStokRequest
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

	if err := oc.Service.TambahStok(req.IDObat, req.Jumlah); err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Stok berhasil ditambahkan",
		"data":    nil,
	})
}

// GetStokRendah menampilkan obat yang stoknya di ambang minimum atau di
// bawahnya.
func (oc *ObatController) GetStokRendah(c echo.Context) error {
	list, err := oc.Service.GetStokRendah()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve data: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Data stok rendah berhasil diambil",
		"data":    list,
	})
}

// HapusObat menghapus obat yang tidak lagi dirujuk resep aktif.
func (oc *ObatController) HapusObat(c echo.Context) error {
	idObat, err := strconv.Atoi(c.QueryParam("id_obat"))
	if err != nil || idObat <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "id_obat harus berupa angka positif",
			"data":    nil,
		})
	}

	if err := oc.Service.HapusObat(idObat); err != nil {
		return c.JSON(errs.HTTPStatus(err), map[string]interface{}{
			"status":  errs.HTTPStatus(err),
			"message": err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Obat berhasil dihapus",
		"data":    nil,
	})
}
