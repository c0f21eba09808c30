package ident

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNomorAntrianDimulaiDariSatu(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tanggal := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("antrian", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(1, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	nomor, err := NomorAntrian(tx, tanggal)
	require.NoError(t, err)
	assert.Equal(t, 1, nomor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKodeResepFormatHarian(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tanggal := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("resep", "2025-03-10").
		WillReturnResult(sqlmock.NewResult(2, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	kode, err := KodeResep(tx, tanggal)
	require.NoError(t, err)
	assert.Equal(t, "RSP20250310002", kode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKodeKunjunganFormatHarian(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tanggal := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("kunjungan", "2025-12-01").
		WillReturnResult(sqlmock.NewResult(17, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	kode, err := KodeKunjungan(tx, tanggal)
	require.NoError(t, err)
	assert.Equal(t, "KJ20251201017", kode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKodeGlobalMemakaiTanggalNol(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("rekam_medis", "1970-01-01").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO Penomoran").
		WithArgs("obat", "1970-01-01").
		WillReturnResult(sqlmock.NewResult(7, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	kodeRM, err := KodeRekamMedis(tx)
	require.NoError(t, err)
	assert.Equal(t, "RM000042", kodeRM)

	kodeObat, err := KodeObat(tx)
	require.NoError(t, err)
	assert.Equal(t, "OBT000007", kodeObat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextMeneruskanErrorDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Penomoran").
		WillReturnError(errors.New("deadlock"))

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = NomorAntrian(tx, time.Now())
	assert.Error(t, err)
}
