package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/klinik-backend/config"
	adminControllers "github.com/c14220110/klinik-backend/internal/administrasi/controllers"
	adminServices "github.com/c14220110/klinik-backend/internal/administrasi/services"
	"github.com/c14220110/klinik-backend/internal/common/middlewares"
	dokterControllers "github.com/c14220110/klinik-backend/internal/dokter/controllers"
	dokterServices "github.com/c14220110/klinik-backend/internal/dokter/services"
	farmasiControllers "github.com/c14220110/klinik-backend/internal/farmasi/controllers"
	farmasiServices "github.com/c14220110/klinik-backend/internal/farmasi/services"
	manajemenControllers "github.com/c14220110/klinik-backend/internal/manajemen/controllers"
	manajemenModels "github.com/c14220110/klinik-backend/internal/manajemen/models"
	manajemenServices "github.com/c14220110/klinik-backend/internal/manajemen/services"
	"github.com/c14220110/klinik-backend/ws"
)

// Init menginisialisasi semua routes menggunakan Echo framework.
func Init(e *echo.Echo, db *sql.DB, cfg *config.Config) {
	// Inisialisasi service
	pendaftaranService := adminServices.NewPendaftaranService(db)
	antrianService := adminServices.NewAntrianService(db)
	pemeriksaanService := dokterServices.NewPemeriksaanService(db)
	obatService := farmasiServices.NewObatService(db)
	resepService := farmasiServices.NewResepService(db, cfg.ResepSimpanRiwayat)
	authService := manajemenServices.NewAuthService(db)

	// Inisialisasi controller dengan service yang sesuai
	pendaftaranController := adminControllers.NewPendaftaranController(pendaftaranService)
	antrianController := adminControllers.NewAntrianController(antrianService)
	pemeriksaanController := dokterControllers.NewPemeriksaanController(pemeriksaanService)
	obatController := farmasiControllers.NewObatController(obatService)
	resepController := farmasiControllers.NewResepController(resepService, ws.HubInstance)
	authController := manajemenControllers.NewAuthController(authService)

	// Grup API utama
	api := e.Group("/api")

	// Endpoint publik: login dan layar antrian
	api.POST("/login", authController.Login)
	api.GET("/antrian/status", antrianController.StatusAntrian)

	// **Grup Administrasi**
	administrasi := api.Group("/administrasi", middlewares.JWTMiddleware(),
		middlewares.RequireRole(manajemenModels.RoleAdministrasi, manajemenModels.RoleManajemen))
	administrasi.POST("/pasien", pendaftaranController.RegisterPasien)
	administrasi.POST("/kunjungan", pendaftaranController.BuatKunjungan)
	administrasi.GET("/antrian", pendaftaranController.ListAntrianHariIni)
	administrasi.POST("/antrian", antrianController.BuatAntrian)
	administrasi.POST("/antrian/panggil", antrianController.PanggilAntrian)
	administrasi.POST("/antrian/panggil-berikutnya", antrianController.PanggilBerikutnya)
	administrasi.PUT("/antrian/batal", antrianController.BatalkanAntrian)

	// **Grup Dokter**
	dokter := api.Group("/dokter", middlewares.JWTMiddleware(),
		middlewares.RequireRole(manajemenModels.RoleDokter))
	dokter.POST("/pemeriksaan/mulai", pemeriksaanController.MulaiPemeriksaan)
	dokter.POST("/pemeriksaan/selesai", pemeriksaanController.SelesaikanPemeriksaan)
	dokter.POST("/rekam-medis", pemeriksaanController.SimpanRekamMedis)
	dokter.GET("/riwayat", pemeriksaanController.RiwayatPasien)
	dokter.POST("/resep", resepController.BuatResep)

	// **Grup Farmasi**
	farmasi := api.Group("/farmasi", middlewares.JWTMiddleware(),
		middlewares.RequireRole(manajemenModels.RoleFarmasi, manajemenModels.RoleManajemen))
	farmasi.POST("/obat", obatController.TambahObat)
	farmasi.GET("/obat", obatController.GetObatList)
	farmasi.PUT("/obat/stok", obatController.TambahStok)
	farmasi.GET("/obat/stok-rendah", obatController.GetStokRendah)
	farmasi.DELETE("/obat", obatController.HapusObat)
	farmasi.GET("/resep", resepController.GetResep)
	farmasi.PUT("/resep", resepController.UbahResep)
	farmasi.DELETE("/resep", resepController.BatalkanResep)
	farmasi.PUT("/resep/pengambilan", resepController.UbahStatusPengambilan)

	// Websocket display farmasi (peringatan stok rendah)
	e.GET("/ws/farmasi", ws.ServeWS(ws.HubInstance))
}
