package postgresql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func ConnectDB(dsn string, logger *zap.Logger) *pgxpool.Pool {
	dbpool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("no se pudo crear el pool de conexiones", zap.Error(err))
	}

	if err := dbpool.Ping(context.Background()); err != nil {
		logger.Fatal("no se pudo conectar a PostgreSQL", zap.Error(err))
	}

	logger.Info("conectado a PostgreSQL")
	return dbpool
}

// RunMigrations aplica las migraciones goose pendientes. Usa un handle
// database/sql aparte porque goose no trabaja sobre pgxpool.
func RunMigrations(dsn string, dir string, logger *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("no se pudo abrir la conexión para migraciones", zap.Error(err))
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("dialecto de migraciones inválido", zap.Error(err))
	}

	if err := goose.Up(db, dir); err != nil {
		logger.Fatal("fallo al aplicar migraciones", zap.Error(err))
	}

	logger.Info("migraciones aplicadas", zap.String("dir", dir))
}
