package models

import "time"

// Obat merepresentasikan record di tabel `Obat`. Stok adalah sumber daya
// bersama yang hanya boleh berubah lewat reservasi/pengembalian resep dan
// penambahan stok gudang.
type Obat struct {
	ID                int        `json:"id_obat" db:"id_obat"`
	Kode              string     `json:"kode_obat" db:"kode_obat"`
	Nama              string     `json:"nama" db:"nama"`
	Satuan            string     `json:"satuan" db:"satuan"`
	Jenis             string     `json:"jenis" db:"jenis"`
	Stok              int        `json:"stok" db:"stok"`
	StokMinimum       int        `json:"stok_minimum" db:"stok_minimum"`
	HargaSatuan       float64    `json:"harga_satuan" db:"harga_satuan"`
	TanggalKadaluarsa *time.Time `json:"tanggal_kadaluarsa,omitempty" db:"tanggal_kadaluarsa"`
}

// ObatRequest adalah payload penambahan obat baru ke katalog.
type ObatRequest struct {
	Nama              string     `json:"nama" validate:"required"`
	Satuan            string     `json:"satuan" validate:"required"`
	Jenis             string     `json:"jenis"`
	Stok              int        `json:"stok" validate:"gte=0"`
	StokMinimum       int        `json:"stok_minimum" validate:"gte=0"`
	HargaSatuan       float64    `json:"harga_satuan" validate:"gte=0"`
	TanggalKadaluarsa *time.Time `json:"tanggal_kadaluarsa,omitempty"`
}

// StokRendah adalah event yang disiarkan ke hub farmasi saat reservasi
// resep membuat stok jatuh ke atau di bawah ambang minimum.
type StokRendah struct {
	IDObat      int    `json:"id_obat"`
	KodeObat    string `json:"kode_obat"`
	Nama        string `json:"nama"`
	Stok        int    `json:"stok"`
	StokMinimum int    `json:"stok_minimum"`
}
