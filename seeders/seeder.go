package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"asistencia-system/internal/roles"
	"asistencia-system/pkg/utils"
)

type unidadSemilla struct {
	Nombre    string
	Ciudad    string
	Direccion string
	Puestos   []string
}

var unidadesSemilla = []unidadSemilla{
	{
		Nombre:    "Torre Empresarial Centro",
		Ciudad:    "Lima",
		Direccion: "Av. República de Panamá 3030",
		Puestos:   []string{"Recepción principal", "Sótano de estacionamiento", "Azotea"},
	},
	{
		Nombre:    "Planta Industrial Norte",
		Ciudad:    "Trujillo",
		Direccion: "Carretera Panamericana Norte km 560",
		Puestos:   []string{"Portón de carga", "Caseta de vigilancia", "Almacén central"},
	},
	{
		Nombre:    "Centro Comercial Sur",
		Ciudad:    "Arequipa",
		Direccion: "Av. Ejército 1009",
		Puestos:   []string{"Entrada norte", "Entrada sur", "Patio de comidas"},
	},
}

// SeedUnidadesYPuestos crea las unidades y puestos de arranque. Es
// idempotente: las unidades existentes (por nombre) no se tocan.
func SeedUnidadesYPuestos(db *pgxpool.Pool) error {
	ctx := context.Background()
	log.Println("Sembrando unidades y puestos...")

	for _, semilla := range unidadesSemilla {
		var unidadID string
		err := db.QueryRow(ctx, "SELECT id FROM unidades WHERE nombre = $1", semilla.Nombre).Scan(&unidadID)
		if errors.Is(err, pgx.ErrNoRows) {
			unidadID = uuid.NewString()
			_, err = db.Exec(ctx,
				"INSERT INTO unidades (id, nombre, ciudad, direccion, activo) VALUES ($1, $2, $3, $4, TRUE)",
				unidadID, semilla.Nombre, semilla.Ciudad, semilla.Direccion,
			)
			if err != nil {
				return fmt.Errorf("no se pudo insertar la unidad %q: %w", semilla.Nombre, err)
			}
			log.Printf("  - unidad creada: %s", semilla.Nombre)
		} else if err != nil {
			return fmt.Errorf("no se pudo consultar la unidad %q: %w", semilla.Nombre, err)
		}

		for _, nombrePuesto := range semilla.Puestos {
			var puestoID string
			err := db.QueryRow(ctx,
				"SELECT id FROM puestos WHERE unidad_id = $1 AND nombre = $2",
				unidadID, nombrePuesto,
			).Scan(&puestoID)
			if errors.Is(err, pgx.ErrNoRows) {
				_, err = db.Exec(ctx,
					"INSERT INTO puestos (id, unidad_id, nombre, activo) VALUES ($1, $2, $3, TRUE)",
					uuid.NewString(), unidadID, nombrePuesto,
				)
				if err != nil {
					return fmt.Errorf("no se pudo insertar el puesto %q: %w", nombrePuesto, err)
				}
				log.Printf("    - puesto creado: %s", nombrePuesto)
			} else if err != nil {
				return fmt.Errorf("no se pudo consultar el puesto %q: %w", nombrePuesto, err)
			}
		}
	}

	log.Println("Unidades y puestos listos.")
	return nil
}

// SeedAdmin crea el usuario administrador inicial si no existe. La
// contraseña sale de ADMIN_PASSWORD; sin esa variable no se crea nada,
// para no dejar una credencial por defecto en producción.
func SeedAdmin(db *pgxpool.Pool) error {
	ctx := context.Background()

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD no definida; se omite la creación del administrador.")
		return nil
	}

	var existente string
	err := db.QueryRow(ctx, "SELECT id FROM usuarios WHERE username = $1", username).Scan(&existente)
	if err == nil {
		log.Printf("El usuario %q ya existe; no se toca.", username)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("no se pudo consultar el usuario %q: %w", username, err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO usuarios (id, username, password_hash, nombres, apellidos, rol, activo)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		uuid.NewString(), username, hash, "Administrador", "del Sistema", roles.Admin,
	)
	if err != nil {
		return fmt.Errorf("no se pudo crear el administrador: %w", err)
	}

	log.Printf("Administrador %q creado.", username)
	return nil
}
