package main

import (
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"asistencia-system/pkg/config"
	"asistencia-system/pkg/database/postgresql"
	applogger "asistencia-system/pkg/logger"
	"asistencia-system/seeders"
)

func main() {
	runCatalogos := flag.Bool("catalogos", false, "Sembrar unidades y puestos de arranque")
	runAdmin := flag.Bool("admin", false, "Crear el usuario administrador inicial (requiere ADMIN_PASSWORD)")
	runAll := flag.Bool("all", false, "Ejecutar todos los sembradores")

	flag.Parse()

	if !*runCatalogos && !*runAdmin && !*runAll {
		log.Println("No se seleccionó ningún sembrador.")
		log.Println("")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Ejemplos:")
		log.Println("  go run ./seeders/cmd/seed -catalogos")
		log.Println("  go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	postgresql.RunMigrations(cfg.Postgres.DSN, "migrations", logger)

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN, logger)
	defer dbPool.Close()

	if *runAll || *runCatalogos {
		if err := seeders.SeedUnidadesYPuestos(dbPool); err != nil {
			log.Fatalf("error sembrando unidades y puestos: %v", err)
		}
	}

	if *runAll || *runAdmin {
		if err := seeders.SeedAdmin(dbPool); err != nil {
			log.Fatalf("error creando el administrador: %v", err)
		}
	}

	log.Println("Sembrado terminado.")
}
