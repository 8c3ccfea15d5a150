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
	"asistencia-system/pkg/types"
)

const usuarioFields = "u.id, u.username, u.password_hash, u.nombres, u.apellidos, u.rol, u.activo, u.created_at"

type UsuarioRepositoryInterface interface {
	GetUsuarios(ctx context.Context, filter types.Filter) ([]entities.Usuario, uint64, error)
	FindUsuario(ctx context.Context, id string) (*entities.Usuario, error)
	FindUsuarioByUsername(ctx context.Context, username string) (*entities.Usuario, error)
	CreateUsuario(ctx context.Context, u entities.Usuario) error
	UpdateUsuario(ctx context.Context, u entities.Usuario) error
	DeactivateUsuario(ctx context.Context, id string) error
}

type UsuarioRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewUsuarioRepository(storage *pgxpool.Pool, logger *zap.Logger) UsuarioRepositoryInterface {
	return &UsuarioRepository{storage: storage, logger: logger}
}

func scanUsuario(row pgx.Row) (*entities.Usuario, error) {
	var u entities.Usuario
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Nombres, &u.Apellidos,
		&u.Rol, &u.Activo, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error escaneando usuario: %w", err)
	}
	return &u, nil
}

func (r *UsuarioRepository) GetUsuarios(ctx context.Context, filter types.Filter) ([]entities.Usuario, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"u.username": pat},
				sq.ILike{"u.nombres": pat},
				sq.ILike{"u.apellidos": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(u.id)").From("usuarios AS u"))
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Usuario{}, 0, nil
	}

	builder := applySearch(psql.Select(usuarioFields).From("usuarios AS u")).
		OrderBy("u.created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	usuarios := make([]entities.Usuario, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, 0, err
		}
		usuarios = append(usuarios, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return usuarios, total, nil
}

func (r *UsuarioRepository) findOne(ctx context.Context, where sq.Eq) (*entities.Usuario, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(usuarioFields).From("usuarios u").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUsuario(r.storage.QueryRow(ctx, query, args...))
}

func (r *UsuarioRepository) FindUsuario(ctx context.Context, id string) (*entities.Usuario, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UsuarioRepository) FindUsuarioByUsername(ctx context.Context, username string) (*entities.Usuario, error) {
	return r.findOne(ctx, sq.Eq{"u.username": username})
}

func (r *UsuarioRepository) CreateUsuario(ctx context.Context, u entities.Usuario) error {
	query := `
		INSERT INTO usuarios (id, username, password_hash, nombres, apellidos, rol, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.storage.Exec(ctx, query,
		u.ID, u.Username, u.PasswordHash, u.Nombres, u.Apellidos, u.Rol, u.Activo,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrConflicto
	}
	return err
}

func (r *UsuarioRepository) UpdateUsuario(ctx context.Context, u entities.Usuario) error {
	query := `
		UPDATE usuarios
		SET nombres = $1, apellidos = $2, rol = $3, activo = $4, password_hash = $5
		WHERE id = $6
	`
	result, err := r.storage.Exec(ctx, query,
		u.Nombres, u.Apellidos, u.Rol, u.Activo, u.PasswordHash, u.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateUsuario marca el usuario como inactivo; nunca se borran filas
// porque las asistencias históricas los referencian.
func (r *UsuarioRepository) DeactivateUsuario(ctx context.Context, id string) error {
	result, err := r.storage.Exec(ctx, `UPDATE usuarios SET activo = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
