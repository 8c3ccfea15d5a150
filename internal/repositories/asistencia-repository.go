package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/turno"
	apperrors "asistencia-system/pkg/errors"
)

const fechaTurnoFormato = "2006-01-02"

type AsistenciaRepositoryInterface interface {
	GetAsistencias(ctx context.Context, filtro dto.FiltroAsistenciaDTO) ([]entities.Asistencia, uint64, error)
	FindAsistencia(ctx context.Context, id string) (*entities.Asistencia, error)
	FindAsistenciaByClave(ctx context.Context, userID, unidadID, puestoID, fechaTurno string, t turno.Turno) (*entities.Asistencia, error)
	CreateAsistencia(ctx context.Context, a entities.Asistencia) error
	UpdateCheckIn(ctx context.Context, a entities.Asistencia) error
	UpdateCheckOut(ctx context.Context, a entities.Asistencia) error
}

type AsistenciaRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewAsistenciaRepository(storage *pgxpool.Pool, logger *zap.Logger) AsistenciaRepositoryInterface {
	return &AsistenciaRepository{storage: storage, logger: logger}
}

func scanAsistencia(row pgx.Row) (*entities.Asistencia, error) {
	var a entities.Asistencia
	var u entities.UsuarioResumen
	var un entities.UnidadResumen
	var p entities.PuestoResumen

	var fechaTurno time.Time
	var checkInAt, checkOutAt sql.NullTime
	var horas, lat, lng sql.NullFloat64
	var ciudad, ip, device sql.NullString

	err := row.Scan(
		&a.ID, &a.UserID, &a.UnidadID, &a.PuestoID, &a.Turno, &fechaTurno,
		&checkInAt, &checkOutAt, &horas, &lat, &lng, &ciudad, &ip, &device,
		&a.CreatedAt,
		&u.ID, &u.Username, &u.Nombres, &u.Apellidos, &u.Rol,
		&un.ID, &un.Nombre, &un.Ciudad,
		&p.ID, &p.Nombre,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error escaneando asistencia: %w", err)
	}

	a.FechaTurno = fechaTurno.Format(fechaTurnoFormato)
	if checkInAt.Valid {
		a.CheckInAt = &checkInAt.Time
	}
	if checkOutAt.Valid {
		a.CheckOutAt = &checkOutAt.Time
	}
	if horas.Valid {
		a.HorasTrabajadas = &horas.Float64
	}
	if lat.Valid {
		a.Lat = &lat.Float64
	}
	if lng.Valid {
		a.Lng = &lng.Float64
	}
	if ciudad.Valid {
		a.CiudadDetectada = &ciudad.String
	}
	if ip.Valid {
		a.IP = &ip.String
	}
	if device.Valid {
		a.DeviceInfo = &device.String
	}
	a.Usuario = &u
	a.Unidad = &un
	a.Puesto = &p

	return &a, nil
}

func (r *AsistenciaRepository) baseSelect() sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return psql.Select(
		"a.id", "a.user_id", "a.unidad_id", "a.puesto_id", "a.turno", "a.fecha_turno",
		"a.check_in_at", "a.check_out_at", "a.horas_trabajadas",
		"a.lat", "a.lng", "a.ciudad_detectada", "a.ip", "a.device_info",
		"a.created_at",
		"u.id", "u.username", "u.nombres", "u.apellidos", "u.rol",
		"un.id", "un.nombre", "un.ciudad",
		"p.id", "p.nombre",
	).From("asistencias AS a").
		Join("usuarios u ON a.user_id = u.id").
		Join("unidades un ON a.unidad_id = un.id").
		Join("puestos p ON a.puesto_id = p.id")
}

func applyFiltros(builder sq.SelectBuilder, filtro dto.FiltroAsistenciaDTO) sq.SelectBuilder {
	if filtro.FechaDesde != "" {
		builder = builder.Where(sq.GtOrEq{"a.fecha_turno": filtro.FechaDesde})
	}
	if filtro.FechaHasta != "" {
		builder = builder.Where(sq.LtOrEq{"a.fecha_turno": filtro.FechaHasta})
	}
	if filtro.UnidadID != "" {
		builder = builder.Where(sq.Eq{"a.unidad_id": filtro.UnidadID})
	}
	if filtro.PuestoID != "" {
		builder = builder.Where(sq.Eq{"a.puesto_id": filtro.PuestoID})
	}
	if filtro.UserID != "" {
		builder = builder.Where(sq.Eq{"a.user_id": filtro.UserID})
	}
	if filtro.Rol != "" {
		builder = builder.Where(sq.Eq{"u.rol": filtro.Rol})
	}
	if filtro.Turno != "" {
		builder = builder.Where(sq.Eq{"a.turno": filtro.Turno})
	}
	if filtro.Ciudad != "" {
		builder = builder.Where(sq.ILike{"a.ciudad_detectada": "%" + filtro.Ciudad + "%"})
	}

	switch filtro.Estado {
	case dto.EstadoSoloIngreso:
		builder = builder.Where("a.check_in_at IS NOT NULL AND a.check_out_at IS NULL")
	case dto.EstadoCompleto:
		builder = builder.Where("a.check_out_at IS NOT NULL")
	}

	if filtro.Busqueda != "" {
		pat := "%" + filtro.Busqueda + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"u.nombres": pat},
			sq.ILike{"u.apellidos": pat},
			sq.ILike{"un.nombre": pat},
			sq.ILike{"p.nombre": pat},
		})
	}

	return builder
}

func (r *AsistenciaRepository) GetAsistencias(ctx context.Context, filtro dto.FiltroAsistenciaDTO) ([]entities.Asistencia, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := applyFiltros(
		psql.Select("COUNT(a.id)").From("asistencias AS a").
			Join("usuarios u ON a.user_id = u.id").
			Join("unidades un ON a.unidad_id = un.id").
			Join("puestos p ON a.puesto_id = p.id"),
		filtro,
	)
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Asistencia{}, 0, nil
	}

	builder := applyFiltros(r.baseSelect(), filtro).OrderBy("a.created_at DESC")
	if filtro.PorPagina > 0 {
		offset := (filtro.Pagina - 1) * filtro.PorPagina
		builder = builder.Limit(uint64(filtro.PorPagina)).Offset(uint64(offset))
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

	asistencias := make([]entities.Asistencia, 0, filtro.PorPagina)
	for rows.Next() {
		a, err := scanAsistencia(rows)
		if err != nil {
			return nil, 0, err
		}
		asistencias = append(asistencias, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return asistencias, total, nil
}

func (r *AsistenciaRepository) FindAsistencia(ctx context.Context, id string) (*entities.Asistencia, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAsistencia(r.storage.QueryRow(ctx, query, args...))
}

func (r *AsistenciaRepository) FindAsistenciaByClave(ctx context.Context, userID, unidadID, puestoID, fechaTurno string, t turno.Turno) (*entities.Asistencia, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{
		"a.user_id":     userID,
		"a.unidad_id":   unidadID,
		"a.puesto_id":   puestoID,
		"a.fecha_turno": fechaTurno,
		"a.turno":       t,
	}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAsistencia(r.storage.QueryRow(ctx, query, args...))
}

// CreateAsistencia inserta el registro del turno. El índice único sobre
// (user_id, unidad_id, puesto_id, fecha_turno, turno) serializa los
// check-in concurrentes: la carrera que pierde recibe ErrConflicto.
func (r *AsistenciaRepository) CreateAsistencia(ctx context.Context, a entities.Asistencia) error {
	query := `
		INSERT INTO asistencias
			(id, user_id, unidad_id, puesto_id, turno, fecha_turno,
			 check_in_at, lat, lng, ciudad_detectada, ip, device_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.storage.Exec(ctx, query,
		a.ID, a.UserID, a.UnidadID, a.PuestoID, a.Turno, a.FechaTurno,
		a.CheckInAt, a.Lat, a.Lng, a.CiudadDetectada, a.IP, a.DeviceInfo,
	)
	if isUniqueViolation(err) {
		return apperrors.ErrConflicto
	}
	return err
}

func (r *AsistenciaRepository) UpdateCheckIn(ctx context.Context, a entities.Asistencia) error {
	query := `
		UPDATE asistencias
		SET check_in_at = $1, lat = $2, lng = $3, ciudad_detectada = $4, ip = $5, device_info = $6
		WHERE id = $7
	`
	result, err := r.storage.Exec(ctx, query,
		a.CheckInAt, a.Lat, a.Lng, a.CiudadDetectada, a.IP, a.DeviceInfo, a.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AsistenciaRepository) UpdateCheckOut(ctx context.Context, a entities.Asistencia) error {
	query := `
		UPDATE asistencias
		SET check_out_at = $1, horas_trabajadas = $2, lat = $3, lng = $4
		WHERE id = $5
	`
	result, err := r.storage.Exec(ctx, query,
		a.CheckOutAt, a.HorasTrabajadas, a.Lat, a.Lng, a.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
