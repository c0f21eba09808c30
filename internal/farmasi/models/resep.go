package models

import "time"

// Status resep. belum_diambil dan sudah_diambil bebas bolak-balik;
// dibatalkan hanya tercatat bila mode simpan-riwayat aktif dan bersifat
// final.
const (
	ResepBelumDiambil = "belum_diambil"
	ResepSudahDiambil = "sudah_diambil"
	ResepDibatalkan   = "dibatalkan"
)

// Resep adalah kepala resep; barisnya ada di ResepDetail.
type Resep struct {
	ID        int           `json:"id_resep" db:"id_resep"`
	IDPasien  int           `json:"id_pasien" db:"id_pasien"`
	IDDokter  int           `json:"id_dokter" db:"id_dokter"`
	Kode      string        `json:"kode_resep" db:"kode_resep"`
	Status    string        `json:"status" db:"status"`
	Catatan   string        `json:"catatan" db:"catatan"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	Details   []ResepDetail `json:"details,omitempty"`
}

// ResepDetail adalah satu baris obat dalam resep. HargaSnapshot dipatok
// saat resep dibuat dan tidak ikut berubah bila harga obat berubah.
type ResepDetail struct {
	ID            int     `json:"id_detail" db:"id_detail"`
	IDResep       int     `json:"id_resep" db:"id_resep"`
	IDObat        int     `json:"id_obat" db:"id_obat"`
	Jumlah        int     `json:"jumlah" db:"jumlah"`
	HargaSnapshot float64 `json:"harga_snapshot" db:"harga_snapshot"`
	AturanPakai   string  `json:"aturan_pakai" db:"aturan_pakai"`
}

// ResepRequest adalah payload pembuatan resep; dokter penulis selalu
// eksplisit.
type ResepRequest struct {
	IDPasien int                  `json:"id_pasien" validate:"required"`
	IDDokter int                  `json:"id_dokter" validate:"required"`
	Catatan  string               `json:"catatan"`
	Details  []ResepDetailRequest `json:"details" validate:"required,min=1,dive"`
}

// ResepDetailRequest adalah satu baris permintaan obat.
type ResepDetailRequest struct {
	IDObat      int    `json:"id_obat" validate:"required"`
	Jumlah      int    `json:"jumlah" validate:"required,gt=0"`
	AturanPakai string `json:"aturan_pakai"`
}
