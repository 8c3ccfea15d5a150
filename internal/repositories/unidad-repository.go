package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asistencia-system/internal/entities"
	apperrors "asistencia-system/pkg/errors"
)

const unidadFields = "un.id, un.nombre, un.ciudad, un.direccion, un.activo"

type UnidadRepositoryInterface interface {
	GetUnidades(ctx context.Context, soloActivas bool) ([]entities.Unidad, error)
	FindUnidad(ctx context.Context, id string) (*entities.Unidad, error)
	CreateUnidad(ctx context.Context, u entities.Unidad) error
	UpdateUnidad(ctx context.Context, u entities.Unidad) error
	DeactivateUnidad(ctx context.Context, id string) error
}

type UnidadRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewUnidadRepository(storage *pgxpool.Pool, logger *zap.Logger) UnidadRepositoryInterface {
	return &UnidadRepository{storage: storage, logger: logger}
}

func scanUnidad(row pgx.Row) (*entities.Unidad, error) {
	var u entities.Unidad
	var direccion sql.NullString

	err := row.Scan(&u.ID, &u.Nombre, &u.Ciudad, &direccion, &u.Activo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error escaneando unidad: %w", err)
	}
	if direccion.Valid {
		u.Direccion = &direccion.String
	}
	return &u, nil
}

func (r *UnidadRepository) GetUnidades(ctx context.Context, soloActivas bool) ([]entities.Unidad, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(unidadFields).From("unidades AS un").OrderBy("un.nombre ASC")
	if soloActivas {
		builder = builder.Where(sq.Eq{"un.activo": true})
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

	unidades := make([]entities.Unidad, 0, 20)
	for rows.Next() {
		u, err := scanUnidad(rows)
		if err != nil {
			return nil, err
		}
		unidades = append(unidades, *u)
	}
	return unidades, rows.Err()
}

func (r *UnidadRepository) FindUnidad(ctx context.Context, id string) (*entities.Unidad, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(unidadFields).From("unidades un").Where(sq.Eq{"un.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUnidad(r.storage.QueryRow(ctx, query, args...))
}

func (r *UnidadRepository) CreateUnidad(ctx context.Context, u entities.Unidad) error {
	query := `INSERT INTO unidades (id, nombre, ciudad, direccion, activo) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.storage.Exec(ctx, query, u.ID, u.Nombre, u.Ciudad, u.Direccion, u.Activo)
	if isUniqueViolation(err) {
		return apperrors.ErrConflicto
	}
	return err
}

func (r *UnidadRepository) UpdateUnidad(ctx context.Context, u entities.Unidad) error {
	query := `UPDATE unidades SET nombre = $1, ciudad = $2, direccion = $3, activo = $4 WHERE id = $5`
	result, err := r.storage.Exec(ctx, query, u.Nombre, u.Ciudad, u.Direccion, u.Activo, u.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UnidadRepository) DeactivateUnidad(ctx context.Context, id string) error {
	result, err := r.storage.Exec(ctx, `UPDATE unidades SET activo = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
