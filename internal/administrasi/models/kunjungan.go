package models

import "time"

// Status kunjungan. Kunjungan selalu bergerak searah status antriannya:
// pasangan update keduanya ditulis dalam satu transaksi.
const (
	KunjunganTerdaftar       = "terdaftar"
	KunjunganSedangDiperiksa = "sedang_diperiksa"
	KunjunganSelesai         = "selesai"
	KunjunganDibatalkan      = "dibatalkan"
)

// Kunjungan mewakili satu kedatangan pasien ke klinik.
type Kunjungan struct {
	ID        int       `json:"id_kunjungan" db:"id_kunjungan"`
	IDPasien  int       `json:"id_pasien" db:"id_pasien"`
	Kode      string    `json:"kode_kunjungan" db:"kode_kunjungan"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
