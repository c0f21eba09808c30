package services

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amodels "github.com/c14220110/klinik-backend/internal/administrasi/models"
	"github.com/c14220110/klinik-backend/internal/common/errs"
	"github.com/c14220110/klinik-backend/internal/dokter/models"
)

func newPemeriksaanService(t *testing.T) (*PemeriksaanService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPemeriksaanService(db), mock, func() { db.Close() }
}

func kolomAntrian() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"status", "id_kunjungan", "nomor_antrian"})
}

func TestMulaiPemeriksaanMenyelaraskanStatus(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs(5).
		WillReturnRows(kolomAntrian().AddRow(amodels.AntrianDipanggil, 7, 1))
	mock.ExpectExec("UPDATE Antrian SET status").
		WithArgs(amodels.AntrianSedangDiperiksa, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Kunjungan SET status").
		WithArgs(amodels.KunjunganSedangDiperiksa, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	antrian, err := svc.MulaiPemeriksaan(5, 2)
	require.NoError(t, err)
	assert.Equal(t, amodels.AntrianSedangDiperiksa, antrian.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMulaiPemeriksaanAntrianSelesaiDitolak(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs(5).
		WillReturnRows(kolomAntrian().AddRow(amodels.AntrianSelesai, 7, 1))
	mock.ExpectRollback()

	_, err := svc.MulaiPemeriksaan(5, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMulaiPemeriksaanAntrianTidakAda(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.MulaiPemeriksaan(99, 2)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelesaikanPemeriksaanDariMenungguDitolak(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs(5).
		WillReturnRows(kolomAntrian().AddRow(amodels.AntrianMenunggu, 7, 1))
	mock.ExpectRollback()

	_, err := svc.SelesaikanPemeriksaan(5, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelesaikanPemeriksaanSukses(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, id_kunjungan, nomor_antrian FROM Antrian").
		WithArgs(5).
		WillReturnRows(kolomAntrian().AddRow(amodels.AntrianSedangDiperiksa, 7, 1))
	mock.ExpectExec("UPDATE Antrian SET status").
		WithArgs(amodels.AntrianSelesai, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Kunjungan SET status").
		WithArgs(amodels.KunjunganSelesai, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	antrian, err := svc.SelesaikanPemeriksaan(5, 2)
	require.NoError(t, err)
	assert.Equal(t, amodels.AntrianSelesai, antrian.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimpanRekamMedisMembutuhkanSedangDiperiksa(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(amodels.KunjunganTerdaftar))
	mock.ExpectRollback()

	_, err := svc.SimpanRekamMedis(models.RekamMedisRequest{
		IDKunjungan: 7,
		IDDokter:    2,
		Diagnosis:   "ISPA ringan",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimpanRekamMedisDiagnosisKosongDitolak(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	_, err := svc.SimpanRekamMedis(models.RekamMedisRequest{IDKunjungan: 7, IDDokter: 2})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSimpanRekamMedisMenutupKunjunganDanAntrian(t *testing.T) {
	svc, mock, selesai := newPemeriksaanService(t)
	defer selesai()

	suhu := 37.8
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM Kunjungan").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(amodels.KunjunganSedangDiperiksa))
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("rekam_medis", "1970-01-01").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO Rekam_Medis").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("UPDATE Kunjungan SET status").
		WithArgs(amodels.KunjunganSelesai, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Antrian SET status").
		WithArgs(amodels.AntrianSelesai, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rekam, err := svc.SimpanRekamMedis(models.RekamMedisRequest{
		IDKunjungan: 7,
		IDDokter:    2,
		Diagnosis:   "ISPA ringan",
		TandaVital:  &models.TandaVital{Suhu: &suhu},
	})
	require.NoError(t, err)
	assert.Equal(t, "RM000003", rekam.Kode)
	assert.Equal(t, models.StatusRekamFinal, rekam.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
