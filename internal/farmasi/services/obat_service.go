package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/ident"
	"github.com/c14220110/klinik-backend/internal/farmasi/models"
)

// ObatService mengelola katalog obat: penambahan, pencarian, restock, dan
// daftar stok rendah. Pengurangan stok hanya dilakukan ResepService.
type ObatService struct {
	DB *sql.DB
}

func NewObatService(db *sql.DB) *ObatService {
	return &ObatService{DB: db}
}

// TambahObat menambahkan obat baru dengan kode yang dibangkitkan dari
// counter global.
func (s *ObatService) TambahObat(req models.ObatRequest) (*models.Obat, error) {
	if req.Nama == "" {
		return nil, fmt.Errorf("%w: nama obat wajib diisi", errs.ErrValidation)
	}
	if req.Stok < 0 || req.StokMinimum < 0 || req.HargaSatuan < 0 {
		return nil, fmt.Errorf("%w: stok dan harga tidak boleh negatif", errs.ErrValidation)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	kode, err := ident.KodeObat(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res, err := tx.Exec(
		`INSERT INTO Obat (kode_obat, nama, satuan, jenis, stok, stok_minimum, harga_satuan, tanggal_kadaluarsa)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		kode, req.Nama, req.Satuan, req.Jenis, req.Stok, req.StokMinimum, req.HargaSatuan, req.TanggalKadaluarsa,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	idObat, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Obat{
		ID:                int(idObat),
		Kode:              kode,
		Nama:              req.Nama,
		Satuan:            req.Satuan,
		Jenis:             req.Jenis,
		Stok:              req.Stok,
		StokMinimum:       req.StokMinimum,
		HargaSatuan:       req.HargaSatuan,
		TanggalKadaluarsa: req.TanggalKadaluarsa,
	}, nil
}

// GetObatList menampilkan daftar obat dengan pencarian nama + pagination.
// q boleh kosong; limit default 20, max 100; page dimulai dari 1.
func (s *ObatService) GetObatList(q string, limit, page int) ([]models.Obat, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	baseQuery := `
		SELECT id_obat, kode_obat, nama, satuan, jenis, stok, stok_minimum, harga_satuan, tanggal_kadaluarsa
		FROM Obat
	`
	conds := []string{}
	params := []interface{}{}

	if q != "" {
		conds = append(conds, "LOWER(nama) LIKE ?")
		params = append(params, "%"+strings.ToLower(q)+"%")
	}

	query := baseQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id_obat"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var list []models.Obat
	for rows.Next() {
		var o models.Obat
		var kadaluarsa sql.NullTime
		if err := rows.Scan(&o.ID, &o.Kode, &o.Nama, &o.Satuan, &o.Jenis,
			&o.Stok, &o.StokMinimum, &o.HargaSatuan, &kadaluarsa); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		if kadaluarsa.Valid {
			t := kadaluarsa.Time
			o.TanggalKadaluarsa = &t
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// TambahStok menambah stok obat secara atomik (restock gudang).
func (s *ObatService) TambahStok(idObat, jumlah int) error {
	if jumlah <= 0 {
		return fmt.Errorf("%w: jumlah restock harus lebih dari nol", errs.ErrValidation)
	}
	res, err := s.DB.Exec("UPDATE Obat SET stok = stok + ? WHERE id_obat = ?", jumlah, idObat)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: obat %d", errs.ErrNotFound, idObat)
	}
	return nil
}

// GetStokRendah mengembalikan daftar obat yang stoknya berada di atau di
// bawah ambang minimumnya.
func (s *ObatService) GetStokRendah() ([]models.StokRendah, error) {
	rows, err := s.DB.Query(
		`SELECT id_obat, kode_obat, nama, stok, stok_minimum
		 FROM Obat
		 WHERE stok <= stok_minimum
		 ORDER BY stok ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.StokRendah
	for rows.Next() {
		var r models.StokRendah
		if err := rows.Scan(&r.IDObat, &r.KodeObat, &r.Nama, &r.Stok, &r.StokMinimum); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// HapusObat menghapus obat dari katalog. Obat yang masih dirujuk resep
// aktif tidak boleh dihapus.
func (s *ObatService) HapusObat(idObat int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}

	var dirujuk int
	err = tx.QueryRow(
		`SELECT COUNT(1)
		 FROM Resep_Detail rd
		 JOIN Resep r ON rd.id_resep = r.id_resep
		 WHERE rd.id_obat = ? AND r.status != ?`,
		idObat, models.ResepDibatalkan,
	).Scan(&dirujuk)
	if err != nil {
		tx.Rollback()
		return err
	}
	if dirujuk > 0 {
		tx.Rollback()
		return fmt.Errorf("%w: obat %d masih dirujuk %d resep aktif", errs.ErrInvalidState, idObat, dirujuk)
	}

	res, err := tx.Exec("DELETE FROM Obat WHERE id_obat = ?", idObat)
	if err != nil {
		tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: obat %d", errs.ErrNotFound, idObat)
	}

	return tx.Commit()
}
