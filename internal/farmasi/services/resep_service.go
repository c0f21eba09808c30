package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/ident"
	"github.com/c14220110/klinik-backend/internal/farmasi/models"
)

// ResepService adalah buku besar resep terhadap stok obat bersama.
// Seluruh mutasi (buat, ubah, batal) berjalan dalam satu transaksi; baris
// Obat yang disentuh dikunci dengan FOR UPDATE sehingga dua resep
// bersamaan tidak pernah membaca stok yang sama.
type ResepService struct {
	DB *sql.DB

	// SimpanRiwayat true berarti pembatalan menandai resep dibatalkan dan
	// menyimpan barisnya sebagai riwayat; false berarti kepala dan baris
	// resep dihapus permanen.
	SimpanRiwayat bool
}

func NewResepService(db *sql.DB, simpanRiwayat bool) *ResepService {
	return &ResepService{DB: db, SimpanRiwayat: simpanRiwayat}
}

// BuatResep membuat kepala resep beserta barisnya dan memesan stok untuk
// setiap baris. Jika satu baris saja gagal (obat tidak ada, jumlah
// melebihi stok), seluruh operasi batal tanpa perubahan tersimpan.
// Mengembalikan juga daftar obat yang stoknya jatuh ke ambang minimum.
func (s *ResepService) BuatResep(req models.ResepRequest, tanggal time.Time) (*models.Resep, []models.StokRendah, error) {
	if err := validasiDetails(req.Details); err != nil {
		return nil, nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, err
	}

	kode, err := ident.KodeResep(tx, tanggal)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO Resep (id_pasien, id_dokter, kode_resep, status, catatan, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.IDPasien, req.IDDokter, kode, models.ResepBelumDiambil, req.Catatan, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	idResep, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	details, stokRendah, err := pesanDetailTx(tx, int(idResep), req.Details)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &models.Resep{
		ID:        int(idResep),
		IDPasien:  req.IDPasien,
		IDDokter:  req.IDDokter,
		Kode:      kode,
		Status:    models.ResepBelumDiambil,
		Catatan:   req.Catatan,
		CreatedAt: now,
		Details:   details,
	}, stokRendah, nil
}

// UbahResep mengganti seluruh baris resep: stok baris lama dikembalikan,
// baris lama dihapus, lalu baris baru divalidasi dan dipesan dengan urutan
// yang sama seperti pembuatan. Bila satu baris baru gagal, transaksi
// di-rollback sehingga baris dan stok lama tetap utuh.
func (s *ResepService) UbahResep(idResep int, newDetails []models.ResepDetailRequest) (*models.Resep, []models.StokRendah, error) {
	if err := validasiDetails(newDetails); err != nil {
		return nil, nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, err
	}

	resep, err := kunciResepTx(tx, idResep)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if resep.Status != models.ResepBelumDiambil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("%w: resep %s berstatus %s", errs.ErrInvalidState, resep.Kode, resep.Status)
	}

	if err := kembalikanStokTx(tx, idResep); err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if _, err := tx.Exec("DELETE FROM Resep_Detail WHERE id_resep = ?", idResep); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	details, stokRendah, err := pesanDetailTx(tx, idResep, newDetails)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	resep.Details = details
	return resep, stokRendah, nil
}

// BatalkanResep mengembalikan stok seluruh baris lalu menghapus resep.
// Dalam mode simpan-riwayat, baris tidak dihapus dan kepala resep ditandai
// dibatalkan.
func (s *ResepService) BatalkanResep(idResep int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}

	resep, err := kunciResepTx(tx, idResep)
	if err != nil {
		tx.Rollback()
		return err
	}
	if resep.Status != models.ResepBelumDiambil {
		tx.Rollback()
		return fmt.Errorf("%w: resep %s berstatus %s", errs.ErrInvalidState, resep.Kode, resep.Status)
	}

	if err := kembalikanStokTx(tx, idResep); err != nil {
		tx.Rollback()
		return err
	}

	if s.SimpanRiwayat {
		if _, err := tx.Exec(
			"UPDATE Resep SET status = ? WHERE id_resep = ?",
			models.ResepDibatalkan, idResep,
		); err != nil {
			tx.Rollback()
			return err
		}
	} else {
		if _, err := tx.Exec("DELETE FROM Resep_Detail WHERE id_resep = ?", idResep); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("DELETE FROM Resep WHERE id_resep = ?", idResep); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// UbahStatusPengambilan membalik status belum_diambil <-> sudah_diambil.
// Resep yang sudah dibatalkan bersifat final.
func (s *ResepService) UbahStatusPengambilan(idResep int) (*models.Resep, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	resep, err := kunciResepTx(tx, idResep)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var baru string
	switch resep.Status {
	case models.ResepBelumDiambil:
		baru = models.ResepSudahDiambil
	case models.ResepSudahDiambil:
		baru = models.ResepBelumDiambil
	default:
		tx.Rollback()
		return nil, fmt.Errorf("%w: resep %s berstatus %s", errs.ErrInvalidState, resep.Kode, resep.Status)
	}

	if _, err := tx.Exec("UPDATE Resep SET status = ? WHERE id_resep = ?", baru, idResep); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	resep.Status = baru
	return resep, nil
}

// GetResepByID mengembalikan kepala resep beserta barisnya.
func (s *ResepService) GetResepByID(idResep int) (*models.Resep, error) {
	var r models.Resep
	err := s.DB.QueryRow(
		`SELECT id_resep, id_pasien, id_dokter, kode_resep, status, catatan, created_at
		 FROM Resep WHERE id_resep = ?`, idResep,
	).Scan(&r.ID, &r.IDPasien, &r.IDDokter, &r.Kode, &r.Status, &r.Catatan, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: resep %d", errs.ErrNotFound, idResep)
		}
		return nil, err
	}

	rows, err := s.DB.Query(
		`SELECT id_detail, id_resep, id_obat, jumlah, harga_snapshot, aturan_pakai
		 FROM Resep_Detail WHERE id_resep = ? ORDER BY id_detail`, idResep,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d models.ResepDetail
		if err := rows.Scan(&d.ID, &d.IDResep, &d.IDObat, &d.Jumlah, &d.HargaSnapshot, &d.AturanPakai); err != nil {
			return nil, err
		}
		r.Details = append(r.Details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// validasiDetails menolak input yang salah bentuk sebelum transaksi dibuka.
func validasiDetails(details []models.ResepDetailRequest) error {
	if len(details) == 0 {
		return fmt.Errorf("%w: resep tanpa baris obat", errs.ErrValidation)
	}
	for _, d := range details {
		if d.IDObat <= 0 {
			return fmt.Errorf("%w: id_obat wajib diisi", errs.ErrValidation)
		}
		if d.Jumlah <= 0 {
			return fmt.Errorf("%w: jumlah harus lebih dari nol", errs.ErrValidation)
		}
	}
	return nil
}

// kunciResepTx membaca kepala resep dengan FOR UPDATE.
func kunciResepTx(tx *sql.Tx, idResep int) (*models.Resep, error) {
	var r models.Resep
	err := tx.QueryRow(
		`SELECT id_resep, id_pasien, id_dokter, kode_resep, status, catatan, created_at
		 FROM Resep WHERE id_resep = ? FOR UPDATE`, idResep,
	).Scan(&r.ID, &r.IDPasien, &r.IDDokter, &r.Kode, &r.Status, &r.Catatan, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: resep %d", errs.ErrNotFound, idResep)
		}
		return nil, err
	}
	return &r, nil
}

// kembalikanStokTx menambah kembali stok setiap baris resep yang tercatat.
func kembalikanStokTx(tx *sql.Tx, idResep int) error {
	rows, err := tx.Query("SELECT id_obat, jumlah FROM Resep_Detail WHERE id_resep = ?", idResep)
	if err != nil {
		return err
	}

	type baris struct{ idObat, jumlah int }
	var daftar []baris
	for rows.Next() {
		var b baris
		if err := rows.Scan(&b.idObat, &b.jumlah); err != nil {
			rows.Close()
			return err
		}
		daftar = append(daftar, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, b := range daftar {
		if _, err := tx.Exec(
			"UPDATE Obat SET stok = stok + ? WHERE id_obat = ?", b.jumlah, b.idObat,
		); err != nil {
			return err
		}
	}
	return nil
}

// pesanDetailTx memvalidasi dan memesan stok untuk setiap baris baru: kunci
// baris Obat, pastikan jumlah <= stok, kurangi stok dengan guard, lalu tulis
// Resep_Detail dengan snapshot harga saat ini.
func pesanDetailTx(tx *sql.Tx, idResep int, details []models.ResepDetailRequest) ([]models.ResepDetail, []models.StokRendah, error) {
	var hasil []models.ResepDetail
	var rendah []models.StokRendah

	for _, d := range details {
		var (
			stok, stokMin int
			harga         float64
			kode, nama    string
		)
		err := tx.QueryRow(
			"SELECT stok, stok_minimum, harga_satuan, kode_obat, nama FROM Obat WHERE id_obat = ? FOR UPDATE",
			d.IDObat,
		).Scan(&stok, &stokMin, &harga, &kode, &nama)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil, fmt.Errorf("%w: obat %d", errs.ErrNotFound, d.IDObat)
			}
			return nil, nil, err
		}

		if d.Jumlah > stok {
			return nil, nil, fmt.Errorf("%w: %s tersisa %d, diminta %d", errs.ErrInsufficientStock, nama, stok, d.Jumlah)
		}

		res, err := tx.Exec(
			"UPDATE Obat SET stok = stok - ? WHERE id_obat = ? AND stok >= ?",
			d.Jumlah, d.IDObat, d.Jumlah,
		)
		if err != nil {
			return nil, nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, nil, err
		}
		if affected == 0 {
			return nil, nil, fmt.Errorf("%w: stok %s berubah di transaksi lain", errs.ErrConcurrency, nama)
		}

		resDet, err := tx.Exec(
			`INSERT INTO Resep_Detail (id_resep, id_obat, jumlah, harga_snapshot, aturan_pakai)
			 VALUES (?, ?, ?, ?, ?)`,
			idResep, d.IDObat, d.Jumlah, harga, d.AturanPakai,
		)
		if err != nil {
			return nil, nil, err
		}
		idDetail, err := resDet.LastInsertId()
		if err != nil {
			return nil, nil, err
		}

		hasil = append(hasil, models.ResepDetail{
			ID:            int(idDetail),
			IDResep:       idResep,
			IDObat:        d.IDObat,
			Jumlah:        d.Jumlah,
			HargaSnapshot: harga,
			AturanPakai:   d.AturanPakai,
		})

		if sisa := stok - d.Jumlah; sisa <= stokMin {
			rendah = append(rendah, models.StokRendah{
				IDObat:      d.IDObat,
				KodeObat:    kode,
				Nama:        nama,
				Stok:        sisa,
				StokMinimum: stokMin,
			})
		}
	}

	return hasil, rendah, nil
}
