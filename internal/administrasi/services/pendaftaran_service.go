package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/ident"
)

// PendaftaranService menangani pendaftaran pasien dan pembuatan kunjungan.
// Kunjungan selalu lahir bersama tiket antriannya dalam satu transaksi.
type PendaftaranService struct {
	DB *sql.DB
}

func NewPendaftaranService(db *sql.DB) *PendaftaranService {
	return &PendaftaranService{DB: db}
}

// RegisterPasienWithKunjungan mendaftarkan pasien baru sekaligus membuat
// kunjungan dan tiket antriannya untuk tanggal yang diberikan.
func (s *PendaftaranService) RegisterPasienWithKunjungan(p models.Pasien, tanggal time.Time) (int64, *models.Kunjungan, *models.Antrian, error) {
	// Cek apakah NIK sudah ada di database.
	var existingID int
	err := s.DB.QueryRow("SELECT id_pasien FROM Pasien WHERE nik = ?", p.Nik).Scan(&existingID)
	if err == nil {
		return 0, nil, nil, fmt.Errorf("%w: NIK sudah terdaftar", errs.ErrValidation)
	} else if err != sql.ErrNoRows {
		return 0, nil, nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return 0, nil, nil, err
	}

	res, err := tx.Exec(
		`INSERT INTO Pasien (nama, tanggal_lahir, jenis_kelamin, nik, no_telp, alamat, tanggal_registrasi)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Nama, p.TanggalLahir, p.JenisKelamin, p.Nik, p.NoTelp, p.Alamat, time.Now(),
	)
	if err != nil {
		tx.Rollback()
		return 0, nil, nil, err
	}
	idPasien, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, nil, nil, err
	}

	kunjungan, antrian, err := buatKunjunganTx(tx, int(idPasien), tanggal)
	if err != nil {
		tx.Rollback()
		return 0, nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, nil, err
	}
	return idPasien, kunjungan, antrian, nil
}

// BuatKunjungan membuat kunjungan baru (beserta antriannya) untuk pasien
// yang sudah terdaftar.
func (s *PendaftaranService) BuatKunjungan(idPasien int, tanggal time.Time) (*models.Kunjungan, *models.Antrian, error) {
	var dummy int
	err := s.DB.QueryRow("SELECT id_pasien FROM Pasien WHERE id_pasien = ?", idPasien).Scan(&dummy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("%w: pasien %d", errs.ErrNotFound, idPasien)
		}
		return nil, nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, nil, err
	}
	kunjungan, antrian, err := buatKunjunganTx(tx, idPasien, tanggal)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return kunjungan, antrian, nil
}

// buatKunjunganTx menulis Kunjungan berstatus terdaftar lalu Antrian
// berstatus menunggu di dalam transaksi pemanggil.
func buatKunjunganTx(tx *sql.Tx, idPasien int, tanggal time.Time) (*models.Kunjungan, *models.Antrian, error) {
	kode, err := ident.KodeKunjungan(tx, tanggal)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO Kunjungan (id_pasien, kode_kunjungan, status, created_at)
		 VALUES (?, ?, ?, ?)`,
		idPasien, kode, models.KunjunganTerdaftar, now,
	)
	if err != nil {
		return nil, nil, err
	}
	idKunjungan, err := res.LastInsertId()
	if err != nil {
		return nil, nil, err
	}

	nomor, err := ident.NomorAntrian(tx, tanggal)
	if err != nil {
		return nil, nil, err
	}

	estimasi, err := estimasiWaktuTunggu(tx, tanggal.Format("2006-01-02"), now)
	if err != nil {
		return nil, nil, err
	}

	resAntrian, err := tx.Exec(
		`INSERT INTO Antrian (id_kunjungan, nomor_antrian, status, keterangan, tanggal, estimasi_waktu, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		idKunjungan, nomor, models.AntrianMenunggu, "", tanggal.Format("2006-01-02"), estimasi, now,
	)
	if err != nil {
		return nil, nil, err
	}
	idAntrian, err := resAntrian.LastInsertId()
	if err != nil {
		return nil, nil, err
	}

	kunjungan := &models.Kunjungan{
		ID:        int(idKunjungan),
		IDPasien:  idPasien,
		Kode:      kode,
		Status:    models.KunjunganTerdaftar,
		CreatedAt: now,
	}
	antrian := &models.Antrian{
		ID:            int(idAntrian),
		IDKunjungan:   int(idKunjungan),
		NomorAntrian:  nomor,
		Status:        models.AntrianMenunggu,
		EstimasiWaktu: estimasi,
		Tanggal:       tanggal.Format("2006-01-02"),
		CreatedAt:     now,
	}
	return kunjungan, antrian, nil
}

// ListAntrianHariIni menampilkan daftar antrian satu tanggal beserta nama
// pasien untuk layar administrasi.
func (s *PendaftaranService) ListAntrianHariIni(tanggal time.Time) ([]map[string]interface{}, error) {
	query := `
		SELECT a.id_antrian, a.nomor_antrian, a.status, a.keterangan,
		       k.id_kunjungan, k.kode_kunjungan, k.status AS status_kunjungan,
		       p.id_pasien, p.nama
		FROM Antrian a
		JOIN Kunjungan k ON a.id_kunjungan = k.id_kunjungan
		JOIN Pasien p ON k.id_pasien = p.id_pasien
		WHERE a.tanggal = ?
		ORDER BY a.nomor_antrian ASC
	`
	rows, err := s.DB.Query(query, tanggal.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query error: %v", err)
	}
	defer rows.Close()

	var result []map[string]interface{}
	for rows.Next() {
		var (
			idAntrian, nomorAntrian, idKunjungan, idPasien int
			status, keterangan, kode, statusKunjungan      string
			nama                                           string
		)
		if err := rows.Scan(&idAntrian, &nomorAntrian, &status, &keterangan,
			&idKunjungan, &kode, &statusKunjungan, &idPasien, &nama); err != nil {
			return nil, fmt.Errorf("scan error: %v", err)
		}
		result = append(result, map[string]interface{}{
			"id_antrian":       idAntrian,
			"nomor_antrian":    nomorAntrian,
			"status":           status,
			"keterangan":       keterangan,
			"id_kunjungan":     idKunjungan,
			"kode_kunjungan":   kode,
			"status_kunjungan": statusKunjungan,
			"id_pasien":        idPasien,
			"nama_pasien":      nama,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
