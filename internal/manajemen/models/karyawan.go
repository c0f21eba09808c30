package models

import "time"

// Role karyawan yang dikenal aplikasi.
const (
	RoleAdministrasi = "administrasi"
	RoleDokter       = "dokter"
	RoleFarmasi      = "farmasi"
	RoleManajemen    = "manajemen"
)

type Karyawan struct {
	ID        int       `json:"id_karyawan"`
	Nama      string    `json:"nama"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
