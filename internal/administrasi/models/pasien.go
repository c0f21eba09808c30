package models

import "time"

// Pasien mewakili data master pasien.
type Pasien struct {
	ID                int       `json:"id_pasien" db:"id_pasien"`
	Nama              string    `json:"nama" db:"nama"`
	TanggalLahir      string    `json:"tanggal_lahir" db:"tanggal_lahir"`
	JenisKelamin      string    `json:"jenis_kelamin" db:"jenis_kelamin"`
	Nik               string    `json:"nik" db:"nik"`
	NoTelp            string    `json:"no_telp" db:"no_telp"`
	Alamat            string    `json:"alamat" db:"alamat"`
	TanggalRegistrasi time.Time `json:"tanggal_registrasi" db:"tanggal_registrasi"`
}
