package models

import "time"

// StatusRekamFinal adalah satu-satunya status rekam medis saat ini; rekam
// medis ditulis sekali di akhir pemeriksaan dan tidak direvisi.
const StatusRekamFinal = "final"

// TandaVital menyimpan hasil pengukuran yang sifatnya opsional. Field yang
// tidak diukur dibiarkan nil dan tidak ikut terserialisasi.
type TandaVital struct {
	Suhu           *float64 `json:"suhu,omitempty"`
	TensiSistolik  *int     `json:"tensi_sistolik,omitempty"`
	TensiDiastolik *int     `json:"tensi_diastolik,omitempty"`
	Nadi           *int     `json:"nadi,omitempty"`
	Respirasi      *int     `json:"respirasi,omitempty"`
	BeratBadan     *float64 `json:"berat_badan,omitempty"`
	TinggiBadan    *float64 `json:"tinggi_badan,omitempty"`
}

// RekamMedis mewakili catatan klinis satu kunjungan yang selesai diperiksa.
type RekamMedis struct {
	ID          int         `json:"id_rm" db:"id_rm"`
	IDKunjungan int         `json:"id_kunjungan" db:"id_kunjungan"`
	IDDokter    int         `json:"id_dokter" db:"id_dokter"`
	Kode        string      `json:"kode_rm" db:"kode_rm"`
	Diagnosis   string      `json:"diagnosis" db:"diagnosis"`
	TandaVital  *TandaVital `json:"tanda_vital,omitempty" db:"tanda_vital"`
	Status      string      `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// RekamMedisRequest adalah payload penyimpanan rekam medis di akhir
// pemeriksaan. IDDokter selalu eksplisit, tidak diambil dari sesi.
type RekamMedisRequest struct {
	IDKunjungan int         `json:"id_kunjungan" validate:"required"`
	IDDokter    int         `json:"id_dokter" validate:"required"`
	Diagnosis   string      `json:"diagnosis" validate:"required"`
	TandaVital  *TandaVital `json:"tanda_vital,omitempty"`
}
