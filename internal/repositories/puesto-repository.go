package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asistencia-system/internal/entities"
	apperrors "asistencia-system/pkg/errors"
)

type PuestoRepositoryInterface interface {
	GetPuestos(ctx context.Context, unidadID string, soloActivos bool) ([]entities.Puesto, error)
	FindPuesto(ctx context.Context, id string) (*entities.Puesto, error)
	CreatePuesto(ctx context.Context, p entities.Puesto) error
	UpdatePuesto(ctx context.Context, p entities.Puesto) error
	DeactivatePuesto(ctx context.Context, id string) error
}

type PuestoRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewPuestoRepository(storage *pgxpool.Pool, logger *zap.Logger) PuestoRepositoryInterface {
	return &PuestoRepository{storage: storage, logger: logger}
}

func scanPuesto(row pgx.Row) (*entities.Puesto, error) {
	var p entities.Puesto
	var un entities.UnidadResumen

	err := row.Scan(&p.ID, &p.UnidadID, &p.Nombre, &p.Activo, &un.ID, &un.Nombre, &un.Ciudad)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error escaneando puesto: %w", err)
	}
	p.Unidad = &un
	return &p, nil
}

func (r *PuestoRepository) baseSelect() sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return psql.Select(
		"p.id", "p.unidad_id", "p.nombre", "p.activo",
		"un.id", "un.nombre", "un.ciudad",
	).From("puestos AS p").Join("unidades un ON p.unidad_id = un.id")
}

func (r *PuestoRepository) GetPuestos(ctx context.Context, unidadID string, soloActivos bool) ([]entities.Puesto, error) {
	builder := r.baseSelect().OrderBy("p.nombre ASC")
	if unidadID != "" {
		builder = builder.Where(sq.Eq{"p.unidad_id": unidadID})
	}
	if soloActivos {
		builder = builder.Where(sq.Eq{"p.activo": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	puestos := make([]entities.Puesto, 0, 20)
	for rows.Next() {
		p, err := scanPuesto(rows)
		if err != nil {
			return nil, err
		}
		puestos = append(puestos, *p)
	}
	return puestos, rows.Err()
}

func (r *PuestoRepository) FindPuesto(ctx context.Context, id string) (*entities.Puesto, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanPuesto(r.storage.QueryRow(ctx, query, args...))
}

func (r *PuestoRepository) CreatePuesto(ctx context.Context, p entities.Puesto) error {
	query := `INSERT INTO puestos (id, unidad_id, nombre, activo) VALUES ($1, $2, $3, $4)`
	_, err := r.storage.Exec(ctx, query, p.ID, p.UnidadID, p.Nombre, p.Activo)
	if isUniqueViolation(err) {
		return apperrors.ErrConflicto
	}
	return err
}

func (r *PuestoRepository) UpdatePuesto(ctx context.Context, p entities.Puesto) error {
	query := `UPDATE puestos SET nombre = $1, activo = $2 WHERE id = $3`
	result, err := r.storage.Exec(ctx, query, p.Nombre, p.Activo, p.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PuestoRepository) DeactivatePuesto(ctx context.Context, id string) error {
	result, err := r.storage.Exec(ctx, `UPDATE puestos SET activo = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
