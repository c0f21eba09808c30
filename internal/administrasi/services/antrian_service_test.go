package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/common/errs"
)

var tanggalUji = time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

func newAntrianService(t *testing.T) (*AntrianService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAntrianService(db), mock, func() { db.Close() }
}

func TestBuatAntrianNomorPertama(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.KunjunganTerdaftar))
	mock.ExpectQuery("SELECT id_antrian FROM Antrian").
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("antrian", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"jumlah"}).AddRow(0))
	mock.ExpectExec("INSERT INTO Antrian").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	antrian, err := svc.BuatAntrian(7, tanggalUji)
	require.NoError(t, err)
	assert.Equal(t, 1, antrian.NomorAntrian)
	assert.Equal(t, models.AntrianMenunggu, antrian.Status)
	assert.Equal(t, 11, antrian.ID)
	require.NotNil(t, antrian.EstimasiWaktu)
	assert.True(t, antrian.EstimasiWaktu.After(time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuatAntrianKunjunganTidakAda(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.BuatAntrian(99, tanggalUji)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuatAntrianKunjunganDibatalkanDitolak(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.KunjunganDibatalkan))
	mock.ExpectRollback()

	_, err := svc.BuatAntrian(7, tanggalUji)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuatAntrianKunjunganSelesaiDitolak(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.KunjunganSelesai))
	mock.ExpectRollback()

	_, err := svc.BuatAntrian(8, tanggalUji)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuatAntrianDuplikatDitolak(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.KunjunganTerdaftar))
	mock.ExpectQuery("SELECT id_antrian FROM Antrian").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}).AddRow(3))
	mock.ExpectRollback()

	_, err := svc.BuatAntrian(7, tanggalUji)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanggilBerikutnyaTanpaAntrianMenunggu(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_antrian, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs("2025-03-10", models.AntrianMenunggu).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.PanggilBerikutnya(tanggalUji, 4)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanggilBerikutnyaMenyelaraskanKunjungan(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_antrian, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs("2025-03-10", models.AntrianMenunggu).
		WillReturnRows(sqlmock.NewRows([]string{"id_antrian", "id_kunjungan", "nomor_antrian"}).
			AddRow(5, 7, 1))
	mock.ExpectExec("UPDATE Antrian SET status").
		WithArgs(models.AntrianSedangDiperiksa, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Kunjungan SET status").
		WithArgs(models.KunjunganSedangDiperiksa, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	antrian, err := svc.PanggilBerikutnya(tanggalUji, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, antrian.NomorAntrian)
	assert.Equal(t, models.AntrianSedangDiperiksa, antrian.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanggilAntrianStatusTerminalDitolak(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"status", "id_kunjungan", "nomor_antrian"}).
			AddRow(models.AntrianSelesai, 7, 1))
	mock.ExpectRollback()

	_, err := svc.PanggilAntrian(5, 4)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatalkanAntrianSedangDiperiksaDitolak(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan FROM Antrian").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"status", "id_kunjungan"}).
			AddRow(models.AntrianSedangDiperiksa, 7))
	mock.ExpectRollback()

	err := svc.BatalkanAntrian(5, 4)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatalkanAntrianMenungguIkutMembatalkanKunjungan(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan FROM Antrian").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"status", "id_kunjungan"}).
			AddRow(models.AntrianMenunggu, 7))
	mock.ExpectExec("UPDATE Antrian SET status").
		WithArgs(models.AntrianDibatalkan, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Kunjungan SET status").
		WithArgs(models.KunjunganDibatalkan, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.BatalkanAntrian(5, 4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAntrianRingkasan(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	kolom := []string{"id_antrian", "id_kunjungan", "nomor_antrian", "status", "keterangan"}
	mock.ExpectBegin()
	mock.ExpectQuery("FROM Antrian").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows(kolom).AddRow(5, 7, 2, models.AntrianSedangDiperiksa, ""))
	mock.ExpectQuery("FROM Antrian").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows(kolom).AddRow(6, 8, 3, models.AntrianMenunggu, ""))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"jumlah"}).AddRow(4))
	mock.ExpectCommit()

	ringkasan, err := svc.StatusAntrian(tanggalUji)
	require.NoError(t, err)
	require.NotNil(t, ringkasan.Sekarang)
	require.NotNil(t, ringkasan.Berikutnya)
	assert.Equal(t, 2, ringkasan.Sekarang.NomorAntrian)
	assert.Equal(t, 3, ringkasan.Berikutnya.NomorAntrian)
	assert.Equal(t, 4, ringkasan.JumlahMenunggu)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAntrianKosong(t *testing.T) {
	svc, mock, selesai := newAntrianService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM Antrian").
		WithArgs("2025-03-10").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("FROM Antrian").
		WithArgs("2025-03-10").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"jumlah"}).AddRow(0))
	mock.ExpectCommit()

	ringkasan, err := svc.StatusAntrian(tanggalUji)
	require.NoError(t, err)
	assert.Nil(t, ringkasan.Sekarang)
	assert.Nil(t, ringkasan.Berikutnya)
	assert.Equal(t, 0, ringkasan.JumlahMenunggu)
	assert.NoError(t, mock.ExpectationsWereMet())
}
