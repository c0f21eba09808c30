package ident

import (
	"database/sql"
	"fmt"
	"time"
)

// Package ident menghasilkan nomor urut dan kode terbaca manusia untuk
// antrian, kunjungan, resep, rekam medis, dan obat. Semua fungsi menerima
// *sql.Tx sehingga penomoran ikut transaksi pemanggil dan batal bersama
// operasi yang gagal.
//
// Counter disimpan di tabel Penomoran dengan PRIMARY KEY (scope, tanggal).
// Scope global memakai tanggal nol 1970-01-01, bukan NULL, karena dua baris
// NULL tidak dianggap duplikat oleh unique key MySQL.

const tanggalGlobal = "1970-01-01"

const (
	scopeAntrian    = "antrian"
	scopeKunjungan  = "kunjungan"
	scopeResep      = "resep"
	scopeRekamMedis = "rekam_medis"
	scopeObat       = "obat"
)

// next menaikkan counter (scope, tanggal) dan mengembalikan nilai barunya.
// Trik LAST_INSERT_ID(expr) membuat increment dan pembacaan terjadi dalam
// satu statement, sehingga dua transaksi bersamaan tidak pernah menerima
// nilai yang sama.
func next(tx *sql.Tx, scope, tanggal string) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO Penomoran (scope, tanggal, nilai)
		 VALUES (?, ?, LAST_INSERT_ID(1))
		 ON DUPLICATE KEY UPDATE nilai = LAST_INSERT_ID(nilai + 1)`,
		scope, tanggal,
	)
	if err != nil {
		return 0, fmt.Errorf("gagal menaikkan counter %s: %v", scope, err)
	}
	return res.LastInsertId()
}

// NomorAntrian mengembalikan nomor antrian berikutnya untuk tanggal yang
// diberikan, dimulai dari 1 setiap hari.
func NomorAntrian(tx *sql.Tx, tanggal time.Time) (int, error) {
	n, err := next(tx, scopeAntrian, tanggal.Format("2006-01-02"))
	return int(n), err
}

// KodeKunjungan menghasilkan kode kunjungan harian berformat KJ<YYYYMMDD><seq3>.
func KodeKunjungan(tx *sql.Tx, tanggal time.Time) (string, error) {
	n, err := next(tx, scopeKunjungan, tanggal.Format("2006-01-02"))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("KJ%s%03d", tanggal.Format("20060102"), n), nil
}

// KodeResep menghasilkan kode resep harian berformat RSP<YYYYMMDD><seq3>.
func KodeResep(tx *sql.Tx, tanggal time.Time) (string, error) {
	n, err := next(tx, scopeResep, tanggal.Format("2006-01-02"))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RSP%s%03d", tanggal.Format("20060102"), n), nil
}

// KodeRekamMedis menghasilkan kode rekam medis global berformat RM<seq6>.
func KodeRekamMedis(tx *sql.Tx) (string, error) {
	n, err := next(tx, scopeRekamMedis, tanggalGlobal)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RM%06d", n), nil
}

// KodeObat menghasilkan kode obat global berformat OBT<seq6>.
func KodeObat(tx *sql.Tx) (string, error) {
	n, err := next(tx, scopeObat, tanggalGlobal)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OBT%06d", n), nil
}
