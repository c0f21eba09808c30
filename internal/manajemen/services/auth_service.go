package services

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/klinik-backend/internal/manajemen/models"
)

// ErrKredensialSalah dikembalikan untuk username tidak terdaftar maupun
// password keliru, tanpa membedakan keduanya.
var ErrKredensialSalah = errors.New("username atau password salah")

type AuthService struct {
	DB *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{DB: db}
}

// Authenticate memverifikasi username dan password karyawan.
func (s *AuthService) Authenticate(username, password string) (*models.Karyawan, error) {
	var k models.Karyawan
	query := "SELECT id_karyawan, nama, username, password, role FROM Karyawan WHERE username = ?"
	err := s.DB.QueryRow(query, username).Scan(&k.ID, &k.Nama, &k.Username, &k.Password, &k.Role)
	if err == sql.ErrNoRows {
		return nil, ErrKredensialSalah
	}
	if err != nil {
		return nil, fmt.Errorf("gagal membaca karyawan: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(k.Password), []byte(password)); err != nil {
		return nil, ErrKredensialSalah
	}

	k.Password = ""
	return &k, nil
}

// RegisterKaryawan menyimpan karyawan baru dengan password ter-hash bcrypt.
func (s *AuthService) RegisterKaryawan(nama, username, password, role string) (int, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("gagal hash password: %v", err)
	}

	query := "INSERT INTO Karyawan (nama, username, password, role, created_at) VALUES (?, ?, ?, ?, NOW())"
	res, err := s.DB.Exec(query, nama, username, string(hashed), role)
	if err != nil {
		return 0, fmt.Errorf("gagal insert karyawan: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}
