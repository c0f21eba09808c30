package models

import "time"

// Status antrian. Antrian tidak pernah dihapus; status akhir adalah
// selesai atau dibatalkan.
const (
	AntrianMenunggu        = "menunggu"
	AntrianDipanggil       = "dipanggil"
	AntrianSedangDiperiksa = "sedang_diperiksa"
	AntrianSelesai         = "selesai"
	AntrianDibatalkan      = "dibatalkan"
)

// Antrian mewakili satu tiket antrian harian milik satu kunjungan.
type Antrian struct {
	ID            int        `json:"id_antrian" db:"id_antrian"`
	IDKunjungan   int        `json:"id_kunjungan" db:"id_kunjungan"`
	NomorAntrian  int        `json:"nomor_antrian" db:"nomor_antrian"`
	Status        string     `json:"status" db:"status"`
	EstimasiWaktu *time.Time `json:"estimasi_waktu,omitempty" db:"estimasi_waktu"`
	Keterangan    string     `json:"keterangan" db:"keterangan"`
	Tanggal       string     `json:"tanggal" db:"tanggal"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// transisiAntrian memetakan status asal ke himpunan status tujuan yang sah.
// Setiap transisi ke sedang_diperiksa atau selesai wajib disertai update
// status kunjungan induk dalam transaksi yang sama; keduanya tidak boleh
// berbeda arah.
var transisiAntrian = map[string]map[string]bool{
	AntrianMenunggu: {
		AntrianDipanggil:       true,
		AntrianSedangDiperiksa: true, // dokter memanggil langsung
		AntrianDibatalkan:      true,
	},
	AntrianDipanggil: {
		AntrianSedangDiperiksa: true,
		AntrianDibatalkan:      true,
	},
	AntrianSedangDiperiksa: {
		AntrianSelesai: true,
	},
}

// TransisiAntrianValid melaporkan apakah perpindahan status antrian dari
// `dari` ke `ke` diizinkan oleh tabel transisi.
func TransisiAntrianValid(dari, ke string) bool {
	return transisiAntrian[dari][ke]
}

// AntrianTerminal melaporkan apakah status merupakan status akhir.
func AntrianTerminal(status string) bool {
	return status == AntrianSelesai || status == AntrianDibatalkan
}

// RingkasanAntrian adalah potret baca-saja untuk layar antrian: tiket yang
// sedang dilayani, tiket menunggu berikutnya, dan jumlah yang menunggu.
type RingkasanAntrian struct {
	Sekarang       *Antrian `json:"sekarang"`
	Berikutnya     *Antrian `json:"berikutnya"`
	JumlahMenunggu int      `json:"jumlah_menunggu"`
}
