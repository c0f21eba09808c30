package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/c14220110/klinik-backend/config"
	"github.com/c14220110/klinik-backend/internal/routes"
	"github.com/c14220110/klinik-backend/pkg/storage/mariadb"
)

func main() {
	cfg := config.LoadConfig()
	db := mariadb.Connect()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	routes.Init(e, db, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Println("Server berjalan di port " + port)
	if err := e.Start(":" + port); err != nil {
		log.Fatal(err)
	}
}
