package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/common/errs"
)

func newPendaftaranService(t *testing.T) (*PendaftaranService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPendaftaranService(db), mock, func() { db.Close() }
}

func TestRegisterPasienMembuatKunjunganDanAntrian(t *testing.T) {
	svc, mock, selesai := newPendaftaranService(t)
	defer selesai()

	mock.ExpectQuery("SELECT id_pasien FROM Pasien WHERE nik").
		WithArgs("3201234567890001").
		WillReturnRows(sqlmock.NewRows([]string{"id_pasien"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Pasien").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("kunjungan", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO Kunjungan").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("antrian", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"jumlah"}).AddRow(3))
	mock.ExpectExec("INSERT INTO Antrian").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	idPasien, kunjungan, antrian, err := svc.RegisterPasienWithKunjungan(models.Pasien{
		Nama:         "Siti Aminah",
		TanggalLahir: "1990-05-17",
		JenisKelamin: "P",
		Nik:          "3201234567890001",
	}, tanggalUji)
	require.NoError(t, err)
	assert.Equal(t, int64(11), idPasien)
	assert.Equal(t, "KJ20250310004", kunjungan.Kode)
	assert.Equal(t, models.KunjunganTerdaftar, kunjungan.Status)
	assert.Equal(t, 4, antrian.NomorAntrian)
	assert.Equal(t, models.AntrianMenunggu, antrian.Status)
	require.NotNil(t, antrian.EstimasiWaktu)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPasienNikGanda(t *testing.T) {
	svc, mock, selesai := newPendaftaranService(t)
	defer selesai()

	mock.ExpectQuery("SELECT id_pasien FROM Pasien WHERE nik").
		WithArgs("3201234567890001").
		WillReturnRows(sqlmock.NewRows([]string{"id_pasien"}).AddRow(7))

	_, _, _, err := svc.RegisterPasienWithKunjungan(models.Pasien{
		Nama: "Siti Aminah",
		Nik:  "3201234567890001",
	}, tanggalUji)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuatKunjunganPasienTidakAda(t *testing.T) {
	svc, mock, selesai := newPendaftaranService(t)
	defer selesai()

	mock.ExpectQuery("SELECT id_pasien FROM Pasien WHERE id_pasien").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id_pasien"}))

	_, _, err := svc.BuatKunjungan(9, tanggalUji)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuatKunjunganBerhasil(t *testing.T) {
	svc, mock, selesai := newPendaftaranService(t)
	defer selesai()

	mock.ExpectQuery("SELECT id_pasien FROM Pasien WHERE id_pasien").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id_pasien"}).AddRow(7))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("kunjungan", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO Kunjungan").
		WillReturnResult(sqlmock.NewResult(22, 1))
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("antrian", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"jumlah"}).AddRow(0))
	mock.ExpectExec("INSERT INTO Antrian").
		WillReturnResult(sqlmock.NewResult(32, 1))
	mock.ExpectCommit()

	kunjungan, antrian, err := svc.BuatKunjungan(7, tanggalUji)
	require.NoError(t, err)
	assert.Equal(t, "KJ20250310009", kunjungan.Kode)
	assert.Equal(t, 9, antrian.NomorAntrian)
	assert.NoError(t, mock.ExpectationsWereMet())
}
