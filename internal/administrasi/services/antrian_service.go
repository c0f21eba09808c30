package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/common/ident"
)

// AntrianService mengelola penerbitan nomor antrian dan perpindahan status
// tiket. Setiap mutasi berjalan dalam satu transaksi; perpindahan yang juga
// menyangkut status kunjungan menulis keduanya di transaksi yang sama.
type AntrianService struct {
	DB *sql.DB
}

func NewAntrianService(db *sql.DB) *AntrianService {
	return &AntrianService{DB: db}
}

// durasiLayanan adalah perkiraan lama pelayanan satu pasien, dipakai untuk
// menghitung estimasi waktu dipanggil saat tiket diterbitkan.
const durasiLayanan = 15 * time.Minute

// estimasiWaktuTunggu menghitung perkiraan waktu dipanggil dari jumlah
// antrian menunggu yang sudah ada di depan tiket baru.
func estimasiWaktuTunggu(tx *sql.Tx, tanggal string, sekarang time.Time) (*time.Time, error) {
	var menunggu int
	err := tx.QueryRow(
		"SELECT COUNT(1) FROM Antrian WHERE tanggal = ? AND status = 'menunggu'", tanggal,
	).Scan(&menunggu)
	if err != nil {
		return nil, err
	}
	estimasi := sekarang.Add(time.Duration(menunggu+1) * durasiLayanan)
	return &estimasi, nil
}

// BuatAntrian menerbitkan tiket antrian untuk kunjungan yang belum
// memilikinya. Nomor diambil dari counter harian, status awal menunggu.
func (s *AntrianService) BuatAntrian(idKunjungan int, tanggal time.Time) (*models.Antrian, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var statusKunjungan string
	err = tx.QueryRow("SELECT status FROM Kunjungan WHERE id_kunjungan = ?", idKunjungan).Scan(&statusKunjungan)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: kunjungan %d", errs.ErrNotFound, idKunjungan)
		}
		return nil, err
	}

	// Tiket hanya terbit untuk kunjungan yang masih terdaftar; status
	// kunjungan dan antriannya tidak boleh berbeda arah sejak awal.
	if statusKunjungan != models.KunjunganTerdaftar {
		tx.Rollback()
		return nil, fmt.Errorf("%w: kunjungan %d berstatus %s", errs.ErrInvalidState, idKunjungan, statusKunjungan)
	}

	// Satu kunjungan hanya boleh memiliki satu antrian.
	var adaAntrian int
	err = tx.QueryRow("SELECT id_antrian FROM Antrian WHERE id_kunjungan = ?", idKunjungan).Scan(&adaAntrian)
	if err == nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: kunjungan %d sudah memiliki antrian", errs.ErrValidation, idKunjungan)
	}
	if err != sql.ErrNoRows {
		tx.Rollback()
		return nil, err
	}

	nomor, err := ident.NomorAntrian(tx, tanggal)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	estimasi, err := estimasiWaktuTunggu(tx, tanggal.Format("2006-01-02"), now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	res, err := tx.Exec(
		`INSERT INTO Antrian (id_kunjungan, nomor_antrian, status, keterangan, tanggal, estimasi_waktu, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		idKunjungan, nomor, models.AntrianMenunggu, "", tanggal.Format("2006-01-02"), estimasi, now,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	idAntrian, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Antrian{
		ID:            int(idAntrian),
		IDKunjungan:   idKunjungan,
		NomorAntrian:  nomor,
		Status:        models.AntrianMenunggu,
		EstimasiWaktu: estimasi,
		Tanggal:       tanggal.Format("2006-01-02"),
		CreatedAt:     now,
	}, nil
}

// PanggilBerikutnya mengambil antrian menunggu paling awal untuk tanggal
// yang diberikan (nomor terkecil), memindahkannya ke sedang_diperiksa, dan
// menyelaraskan status kunjungan induk dalam transaksi yang sama. Jika
// tidak ada yang menunggu, tidak ada state yang berubah.
func (s *AntrianService) PanggilBerikutnya(tanggal time.Time, idKaryawan int) (*models.Antrian, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	var idAntrian, idKunjungan, nomor int
	err = tx.QueryRow(
		`SELECT id_antrian, id_kunjungan, nomor_antrian
		 FROM Antrian
		 WHERE tanggal = ? AND status = ?
		 ORDER BY nomor_antrian ASC
		 LIMIT 1
		 FOR UPDATE`,
		tanggal.Format("2006-01-02"), models.AntrianMenunggu,
	).Scan(&idAntrian, &idKunjungan, &nomor)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: tidak ada antrian menunggu", errs.ErrNotFound)
		}
		return nil, err
	}

	keterangan := fmt.Sprintf("dipanggil masuk oleh petugas %d", idKaryawan)
	res, err := tx.Exec(
		"UPDATE Antrian SET status = ?, keterangan = ? WHERE id_antrian = ?",
		models.AntrianSedangDiperiksa, keterangan, idAntrian,
	)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if affected == 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: antrian %d berubah di transaksi lain", errs.ErrConcurrency, idAntrian)
	}

	if _, err := tx.Exec(
		"UPDATE Kunjungan SET status = ? WHERE id_kunjungan = ?",
		models.KunjunganSedangDiperiksa, idKunjungan,
	); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Antrian{
		ID:           idAntrian,
		IDKunjungan:  idKunjungan,
		NomorAntrian: nomor,
		Status:       models.AntrianSedangDiperiksa,
		Keterangan:   keterangan,
		Tanggal:      tanggal.Format("2006-01-02"),
	}, nil
}

// PanggilAntrian memindahkan satu antrian dari menunggu ke dipanggil
// (panggilan pengeras suara). Status kunjungan belum berubah di tahap ini.
func (s *AntrianService) PanggilAntrian(idAntrian, idKaryawan int) (*models.Antrian, error) {
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

	if !models.TransisiAntrianValid(status, models.AntrianDipanggil) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: antrian %d berstatus %s", errs.ErrInvalidState, idAntrian, status)
	}

	keterangan := fmt.Sprintf("dipanggil oleh petugas %d", idKaryawan)
	if _, err := tx.Exec(
		"UPDATE Antrian SET status = ?, keterangan = ? WHERE id_antrian = ?",
		models.AntrianDipanggil, keterangan, idAntrian,
	); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Antrian{
		ID:           idAntrian,
		IDKunjungan:  idKunjungan,
		NomorAntrian: nomor,
		Status:       models.AntrianDipanggil,
		Keterangan:   keterangan,
	}, nil
}

// BatalkanAntrian membatalkan antrian yang masih menunggu atau dipanggil
// dan ikut membatalkan kunjungan induknya dalam satu transaksi.
func (s *AntrianService) BatalkanAntrian(idAntrian, idKaryawan int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}

	var status string
	var idKunjungan int
	err = tx.QueryRow(
		"SELECT status, id_kunjungan FROM Antrian WHERE id_antrian = ? FOR UPDATE",
		idAntrian,
	).Scan(&status, &idKunjungan)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: antrian %d", errs.ErrNotFound, idAntrian)
		}
		return err
	}

	if !models.TransisiAntrianValid(status, models.AntrianDibatalkan) {
		tx.Rollback()
		return fmt.Errorf("%w: antrian %d berstatus %s", errs.ErrInvalidState, idAntrian, status)
	}

	keterangan := fmt.Sprintf("dibatalkan oleh petugas %d", idKaryawan)
	if _, err := tx.Exec(
		"UPDATE Antrian SET status = ?, keterangan = ? WHERE id_antrian = ?",
		models.AntrianDibatalkan, keterangan, idAntrian,
	); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(
		"UPDATE Kunjungan SET status = ? WHERE id_kunjungan = ?",
		models.KunjunganDibatalkan, idKunjungan,
	); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// StatusAntrian mengembalikan potret baca-saja untuk layar antrian: tiket
// yang sedang dilayani, tiket menunggu berikutnya, dan jumlah menunggu.
// Ketiga pembacaan berjalan dalam satu transaksi supaya potretnya konsisten
// saat antrian bergerak bersamaan.
func (s *AntrianService) StatusAntrian(tanggal time.Time) (*models.RingkasanAntrian, error) {
	tgl := tanggal.Format("2006-01-02")
	ringkasan := &models.RingkasanAntrian{}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}

	sekarang, err := ambilSatuTx(tx,
		`SELECT id_antrian, id_kunjungan, nomor_antrian, status, keterangan
		 FROM Antrian
		 WHERE tanggal = ? AND status IN ('dipanggil', 'sedang_diperiksa')
		 ORDER BY nomor_antrian DESC
		 LIMIT 1`, tgl)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	ringkasan.Sekarang = sekarang

	berikutnya, err := ambilSatuTx(tx,
		`SELECT id_antrian, id_kunjungan, nomor_antrian, status, keterangan
		 FROM Antrian
		 WHERE tanggal = ? AND status = 'menunggu'
		 ORDER BY nomor_antrian ASC
		 LIMIT 1`, tgl)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	ringkasan.Berikutnya = berikutnya

	err = tx.QueryRow(
		"SELECT COUNT(1) FROM Antrian WHERE tanggal = ? AND status = 'menunggu'", tgl,
	).Scan(&ringkasan.JumlahMenunggu)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ringkasan, nil
}

func ambilSatuTx(tx *sql.Tx, query, tgl string) (*models.Antrian, error) {
	var a models.Antrian
	err := tx.QueryRow(query, tgl).Scan(&a.ID, &a.IDKunjungan, &a.NomorAntrian, &a.Status, &a.Keterangan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Tanggal = tgl
	return &a, nil
}
