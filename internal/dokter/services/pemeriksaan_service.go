package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	amodels "github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/ident"
	"github.com/c14220110/klinik-backend/internal/dokter/models"
)

// PemeriksaanService menyinkronkan status antrian dengan status kunjungan
// selama siklus pemeriksaan dan menulis rekam medis di akhirnya. Pasangan
// update antrian/kunjungan selalu berada dalam satu transaksi agar kedua
// status tidak pernah berbeda arah.
type PemeriksaanService struct {
	DB *sql.DB
}

func NewPemeriksaanService(db *sql.DB) *PemeriksaanService {
	return &PemeriksaanService{DB: db}
}

// MulaiPemeriksaan memindahkan antrian ke sedang_diperiksa dan kunjungan
// induknya ikut ke sedang_diperiksa. Antrian berstatus akhir ditolak tanpa
// perubahan apa pun.
func (s *PemeriksaanService) MulaiPemeriksaan(idAntrian, idDokter int) (*amodels.Antrian, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var status string
	var idKunjungan, nomor int
	err = tx.QueryRow(
		"SELECT status, id_kunjungan, nomor_antrian FROM Antrian WHERE id_antrian = ? FOR UPDATE",
		idAntrian,
	).Scan(&status, &idKunjungan, &nomor)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: antrian %d", errs.ErrNotFound, idAntrian)
		}
		return nil, err
	}

	if !amodels.TransisiAntrianValid(status, amodels.AntrianSedangDiperiksa) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: antrian %d berstatus %s", errs.ErrInvalidState, idAntrian, status)
	}

	keterangan := fmt.Sprintf("pemeriksaan dimulai oleh dokter %d", idDokter)
	if _, err := tx.Exec(
		"UPDATE Antrian SET status = ?, keterangan = ? WHERE id_antrian = ?",
		amodels.AntrianSedangDiperiksa, keterangan, idAntrian,
	); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.Exec(
		"UPDATE Kunjungan SET status = ? WHERE id_kunjungan = ?",
		amodels.KunjunganSedangDiperiksa, idKunjungan,
	); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &amodels.Antrian{
		ID:           idAntrian,
		IDKunjungan:  idKunjungan,
		NomorAntrian: nomor,
		Status:       amodels.AntrianSedangDiperiksa,
		Keterangan:   keterangan,
	}, nil
}

// SelesaikanPemeriksaan memindahkan antrian dan kunjungan induknya ke
// selesai dalam satu transaksi.
func (s *PemeriksaanService) SelesaikanPemeriksaan(idAntrian, idDokter int) (*amodels.Antrian, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var status string
	var idKunjungan, nomor int
	err = tx.QueryRow(
		"SELECT status, id_kunjungan, nomor_antrian FROM Antrian WHERE id_antrian = ? FOR UPDATE",
		idAntrian,
	).Scan(&status, &idKunjungan, &nomor)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: antrian %d", errs.ErrNotFound, idAntrian)
		}
		return nil, err
	}

	if !amodels.TransisiAntrianValid(status, amodels.AntrianSelesai) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: antrian %d berstatus %s", errs.ErrInvalidState, idAntrian, status)
	}

	keterangan := fmt.Sprintf("pemeriksaan diselesaikan oleh dokter %d", idDokter)
	if _, err := tx.Exec(
		"UPDATE Antrian SET status = ?, keterangan = ? WHERE id_antrian = ?",
		amodels.AntrianSelesai, keterangan, idAntrian,
	); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.Exec(
		"UPDATE Kunjungan SET status = ? WHERE id_kunjungan = ?",
		amodels.KunjunganSelesai, idKunjungan,
	); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &amodels.Antrian{
		ID:           idAntrian,
		IDKunjungan:  idKunjungan,
		NomorAntrian: nomor,
		Status:       amodels.AntrianSelesai,
		Keterangan:   keterangan,
	}, nil
}

// SimpanRekamMedis menulis rekam medis untuk kunjungan yang sedang
// diperiksa, lalu menandai kunjungan dan antriannya selesai. Penyimpanan
// rekam dan penutupan kunjungan adalah satu langkah atomik; tidak ada
// status antara "menunggu review".
func (s *PemeriksaanService) SimpanRekamMedis(req models.RekamMedisRequest) (*models.RekamMedis, error) {
	if req.Diagnosis == "" {
		return nil, fmt.Errorf("%w: diagnosis wajib diisi", errs.ErrValidation)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var statusKunjungan string
	err = tx.QueryRow(
		"SELECT status FROM Kunjungan WHERE id_kunjungan = ? FOR UPDATE",
		req.IDKunjungan,
	).Scan(&statusKunjungan)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: kunjungan %d", errs.ErrNotFound, req.IDKunjungan)
		}
		return nil, err
	}
	if statusKunjungan != amodels.KunjunganSedangDiperiksa {
		tx.Rollback()
		return nil, fmt.Errorf("%w: kunjungan %d berstatus %s", errs.ErrInvalidState, req.IDKunjungan, statusKunjungan)
	}

	kode, err := ident.KodeRekamMedis(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var tandaVital sql.NullString
	if req.TandaVital != nil {
		b, err := json.Marshal(req.TandaVital)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		tandaVital = sql.NullString{String: string(b), Valid: true}
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO Rekam_Medis (id_kunjungan, id_dokter, kode_rm, diagnosis, tanda_vital, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.IDKunjungan, req.IDDokter, kode, req.Diagnosis, tandaVital, models.StatusRekamFinal, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	idRM, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := tx.Exec(
		"UPDATE Kunjungan SET status = ? WHERE id_kunjungan = ?",
		amodels.KunjunganSelesai, req.IDKunjungan,
	); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.Exec(
		"UPDATE Antrian SET status = ?, keterangan = ? WHERE id_kunjungan = ?",
		amodels.AntrianSelesai, fmt.Sprintf("rekam medis %s disimpan", kode), req.IDKunjungan,
	); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.RekamMedis{
		ID:          int(idRM),
		IDKunjungan: req.IDKunjungan,
		IDDokter:    req.IDDokter,
		Kode:        kode,
		Diagnosis:   req.Diagnosis,
		TandaVital:  req.TandaVital,
		Status:      models.StatusRekamFinal,
		CreatedAt:   now,
	}, nil
}

// GetRiwayatByPasien mengembalikan riwayat pemeriksaan seorang pasien
// beserta kode rekam medis dan nomor antriannya.
func (s *PemeriksaanService) GetRiwayatByPasien(idPasien int) ([]map[string]interface{}, error) {
	query := `
		SELECT k.id_kunjungan, k.kode_kunjungan, k.status, k.created_at,
		       a.nomor_antrian,
		       rm.kode_rm, rm.diagnosis
		FROM Kunjungan k
		JOIN Antrian a ON a.id_kunjungan = k.id_kunjungan
		LEFT JOIN Rekam_Medis rm ON rm.id_kunjungan = k.id_kunjungan
		WHERE k.id_pasien = ?
		ORDER BY k.id_kunjungan
	`
	rows, err := s.DB.Query(query, idPasien)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []map[string]interface{}
	for rows.Next() {
		var (
			idKunjungan, nomorAntrian int
			kodeKunjungan, status     string
			createdAt                 time.Time
			kodeRM, diagnosis         sql.NullString
		)
		if err := rows.Scan(&idKunjungan, &kodeKunjungan, &status, &createdAt,
			&nomorAntrian, &kodeRM, &diagnosis); err != nil {
			return nil, err
		}
		data := map[string]interface{}{
			"id_kunjungan":   idKunjungan,
			"kode_kunjungan": kodeKunjungan,
			"status":         status,
			"tanggal":        createdAt.Format("02/01/2006"),
			"nomor_antrian":  nomorAntrian,
			"kode_rm":        nil,
			"diagnosis":      nil,
		}
		if kodeRM.Valid {
			data["kode_rm"] = kodeRM.String
		}
		if diagnosis.Valid {
			data["diagnosis"] = diagnosis.String
		}
		result = append(result, data)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
