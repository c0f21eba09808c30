package errs

import (
	"errors"
	"net/http"
)

// Taksonomi error inti. Setiap service mengembalikan salah satu error di
// bawah ini (dibungkus dengan fmt.Errorf "%w" plus konteks), sehingga
// controller cukup memetakan dengan errors.Is ke kode HTTP.
var (
	// ErrValidation menandakan input yang tidak valid: field wajib kosong,
	// jumlah tidak positif, dan sejenisnya. Terdeteksi sebelum ada tulisan
	// ke database.
	ErrValidation = errors.New("validasi gagal")

	// ErrNotFound menandakan entitas yang dirujuk tidak ada, termasuk
	// kondisi "tidak ada antrian menunggu" pada pemanggilan berikutnya.
	ErrNotFound = errors.New("data tidak ditemukan")

	// ErrInvalidState menandakan operasi pada entitas yang statusnya tidak
	// mengizinkan operasi tersebut (misal mengubah resep yang sudah
	// diambil, memulai pemeriksaan antrian yang sudah selesai).
	ErrInvalidState = errors.New("status tidak mengizinkan operasi ini")

	// ErrInsufficientStock menandakan permintaan jumlah obat melebihi stok
	// yang tersedia; seluruh transaksi di-rollback.
	ErrInsufficientStock = errors.New("stok obat tidak mencukupi")

	// ErrConcurrency menandakan tulisan bersamaan yang terdeteksi, misal
	// pengurangan stok terjaga yang tidak mengenai baris apa pun.
	ErrConcurrency = errors.New("terjadi konflik penulisan bersamaan")
)

// HTTPStatus memetakan error taksonomi ke kode HTTP untuk dipakai controller.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConcurrency):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
