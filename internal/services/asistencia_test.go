package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asistencia-system/internal/dto"
	"asistencia-system/internal/entities"
	"asistencia-system/internal/repositories"
	"asistencia-system/internal/roles"
	"asistencia-system/internal/turno"
	apperrors "asistencia-system/pkg/errors"
)

type fakeAsistenciaRepo struct {
	registros    map[string]*entities.Asistencia
	crearErr     error
	ultimoFiltro dto.FiltroAsistenciaDTO
}

func newFakeAsistenciaRepo() *fakeAsistenciaRepo {
	return &fakeAsistenciaRepo{registros: make(map[string]*entities.Asistencia)}
}

func (f *fakeAsistenciaRepo) GetAsistencias(_ context.Context, filtro dto.FiltroAsistenciaDTO) ([]entities.Asistencia, uint64, error) {
	f.ultimoFiltro = filtro
	var out []entities.Asistencia
	for _, a := range f.registros {
		if filtro.UserID != "" && a.UserID != filtro.UserID {
			continue
		}
		out = append(out, *a)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeAsistenciaRepo) FindAsistencia(_ context.Context, id string) (*entities.Asistencia, error) {
	if a, ok := f.registros[id]; ok {
		copia := *a
		return &copia, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAsistenciaRepo) FindAsistenciaByClave(_ context.Context, userID, unidadID, puestoID, fechaTurno string, t turno.Turno) (*entities.Asistencia, error) {
	for _, a := range f.registros {
		if a.UserID == userID && a.UnidadID == unidadID && a.PuestoID == puestoID &&
			a.FechaTurno == fechaTurno && a.Turno == t {
			copia := *a
			return &copia, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeAsistenciaRepo) CreateAsistencia(_ context.Context, a entities.Asistencia) error {
	if f.crearErr != nil {
		return f.crearErr
	}
	copia := a
	f.registros[a.ID] = &copia
	return nil
}

func (f *fakeAsistenciaRepo) UpdateCheckIn(_ context.Context, a entities.Asistencia) error {
	existente, ok := f.registros[a.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existente.CheckInAt = a.CheckInAt
	existente.Lat = a.Lat
	existente.Lng = a.Lng
	existente.CiudadDetectada = a.CiudadDetectada
	existente.IP = a.IP
	existente.DeviceInfo = a.DeviceInfo
	return nil
}

func (f *fakeAsistenciaRepo) UpdateCheckOut(_ context.Context, a entities.Asistencia) error {
	existente, ok := f.registros[a.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existente.CheckOutAt = a.CheckOutAt
	existente.HorasTrabajadas = a.HorasTrabajadas
	existente.Lat = a.Lat
	existente.Lng = a.Lng
	return nil
}

type fakeCacheRepo struct {
	valores map[string]string
	setErr  error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{valores: make(map[string]string)}
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.valores[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.valores[key]; ok {
		return v, nil
	}
	return "", errors.New("clave no encontrada")
}

func (f *fakeCacheRepo) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.valores, k)
	}
	return nil
}

var _ repositories.AsistenciaRepositoryInterface = (*fakeAsistenciaRepo)(nil)
var _ repositories.CacheRepositoryInterface = (*fakeCacheRepo)(nil)

const (
	userID   = "11111111-1111-4111-8111-111111111111"
	unidadID = "22222222-2222-4222-8222-222222222222"
	puestoID = "33333333-3333-4333-8333-333333333333"
)

func sesionAgente() entities.UserSession {
	u, p := unidadID, puestoID
	return entities.UserSession{
		ID:        userID,
		Username:  "jperez",
		Nombres:   "Juan",
		Apellidos: "Pérez",
		Rol:       roles.Agente,
		UnidadID:  &u,
		PuestoID:  &p,
	}
}

func nuevoServicio(repo *fakeAsistenciaRepo, cache *fakeCacheRepo) *AsistenciaService {
	contador := 0
	return NewAsistenciaService(repo, cache, zap.NewNop(), 24*time.Hour, func() string {
		contador++
		return fmt.Sprintf("id-generado-%d", contador)
	})
}

func payloadCheckIn() dto.CheckInDTO {
	lat, lng := -12.0464, -77.0428
	ciudad := "Lima"
	device := "Android 14"
	return dto.CheckInDTO{
		UnidadID:        unidadID,
		PuestoID:        puestoID,
		Lat:             &lat,
		Lng:             &lng,
		CiudadDetectada: &ciudad,
		DeviceInfo:      &device,
	}
}

func TestCheckInTurnoDia(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	ahora := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	res, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ahora)
	require.NoError(t, err)

	assert.Equal(t, turno.Dia, res.Turno)
	assert.Equal(t, "2026-03-15", res.FechaTurno)
	require.NotNil(t, res.CheckInAt)
	assert.Nil(t, res.CheckOutAt)
	require.NotNil(t, res.IP)
	assert.Equal(t, "190.40.1.1", *res.IP)
}

func TestCheckInRechazaPuestoAjeno(t *testing.T) {
	svc := nuevoServicio(newFakeAsistenciaRepo(), newFakeCacheRepo())

	payload := payloadCheckIn()
	payload.PuestoID = "44444444-4444-4444-8444-444444444444"

	_, err := svc.CheckIn(context.Background(), sesionAgente(), payload, "190.40.1.1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrUnidadPuestoNoCoinciden)
}

func TestCheckInDuplicado(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	ahora := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	_, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ahora)
	require.NoError(t, err)

	// Segundo intento dentro del mismo turno, aunque sea horas después.
	_, err = svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ahora.Add(3*time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrYaRegistroIngreso)
}

func TestCheckInCarreraConcurrente(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	repo.crearErr = apperrors.ErrConflicto
	svc := nuevoServicio(repo, newFakeCacheRepo())

	// El perdedor de la carrera ve el mismo error que un doble check-in.
	_, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, apperrors.ErrYaRegistroIngreso)
}

func TestCheckInReactivaRegistroSinIngreso(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	repo.registros["huerfano"] = &entities.Asistencia{
		ID:         "huerfano",
		UserID:     userID,
		UnidadID:   unidadID,
		PuestoID:   puestoID,
		Turno:      turno.Dia,
		FechaTurno: "2026-03-15",
	}
	svc := nuevoServicio(repo, newFakeCacheRepo())

	ahora := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	res, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ahora)
	require.NoError(t, err)

	assert.Equal(t, "huerfano", res.ID)
	require.NotNil(t, res.CheckInAt)
}

func TestCheckInTurnoNocheCruzaMedianoche(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	antes := time.Date(2026, 3, 14, 23, 30, 0, 0, time.Local)
	res, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", antes)
	require.NoError(t, err)
	assert.Equal(t, turno.Noche, res.Turno)
	assert.Equal(t, "2026-03-14", res.FechaTurno)

	// Pasada la medianoche el mismo turno sigue vigente: el registro se
	// encuentra y el duplicado se rechaza.
	despues := time.Date(2026, 3, 15, 0, 30, 0, 0, time.Local)
	_, err = svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", despues)
	assert.ErrorIs(t, err, apperrors.ErrYaRegistroIngreso)

	actual, err := svc.Actual(context.Background(), sesionAgente(), despues)
	require.NoError(t, err)
	require.NotNil(t, actual)
	assert.Equal(t, res.ID, actual.ID)
}

func TestCheckOutCalculaHoras(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	cache := newFakeCacheRepo()
	svc := nuevoServicio(repo, cache)

	ingreso := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	creada, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ingreso)
	require.NoError(t, err)

	salida := ingreso.Add(6 * time.Hour)
	res, err := svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: creada.ID}, salida)
	require.NoError(t, err)

	require.NotNil(t, res.CheckOutAt)
	require.NotNil(t, res.HorasTrabajadas)
	assert.Equal(t, 6.0, *res.HorasTrabajadas)

	// El check-out revoca la sesión completa.
	val, err := cache.Get(context.Background(), repositories.RevocationKey(userID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(salida.Unix()), val)
}

func TestCheckOutRedondeaADosDecimales(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	ingreso := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	creada, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ingreso)
	require.NoError(t, err)

	salida := ingreso.Add(7*time.Hour + 35*time.Minute)
	res, err := svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: creada.ID}, salida)
	require.NoError(t, err)

	require.NotNil(t, res.HorasTrabajadas)
	assert.Equal(t, 7.58, *res.HorasTrabajadas)
}

func TestCheckOutRegistroAjeno(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	checkIn := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	repo.registros["ajeno"] = &entities.Asistencia{
		ID:         "ajeno",
		UserID:     "99999999-9999-4999-8999-999999999999",
		UnidadID:   unidadID,
		PuestoID:   puestoID,
		Turno:      turno.Dia,
		FechaTurno: "2026-03-15",
		CheckInAt:  &checkIn,
	}
	svc := nuevoServicio(repo, newFakeCacheRepo())

	// El registro de otro usuario se responde como inexistente.
	_, err := svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: "ajeno"}, checkIn.Add(time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckOutSinIngreso(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	repo.registros["sin-ingreso"] = &entities.Asistencia{
		ID:         "sin-ingreso",
		UserID:     userID,
		UnidadID:   unidadID,
		PuestoID:   puestoID,
		Turno:      turno.Dia,
		FechaTurno: "2026-03-15",
	}
	svc := nuevoServicio(repo, newFakeCacheRepo())

	_, err := svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: "sin-ingreso"}, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrDebeRegistrarIngreso)
}

func TestCheckOutDuplicado(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	ingreso := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	creada, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ingreso)
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: creada.ID}, ingreso.Add(6*time.Hour))
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: creada.ID}, ingreso.Add(7*time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrYaRegistroSalida)
}

func TestCheckOutConservaCoordenadasDelIngreso(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	ingreso := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	creada, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ingreso)
	require.NoError(t, err)

	// Sin coordenadas en la salida se conservan las del ingreso.
	res, err := svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: creada.ID}, ingreso.Add(6*time.Hour))
	require.NoError(t, err)

	require.NotNil(t, res.Lat)
	assert.Equal(t, -12.0464, *res.Lat)
}

func TestCheckOutSigueAunqueLaRevocacionFalle(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	cache := newFakeCacheRepo()
	cache.setErr = errors.New("redis caído")
	svc := nuevoServicio(repo, cache)

	ingreso := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	creada, err := svc.CheckIn(context.Background(), sesionAgente(), payloadCheckIn(), "190.40.1.1", ingreso)
	require.NoError(t, err)

	res, err := svc.CheckOut(context.Background(), sesionAgente(), dto.CheckOutDTO{AsistenciaID: creada.ID}, ingreso.Add(6*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, res.CheckOutAt)
}

func TestActualSinRegistro(t *testing.T) {
	svc := nuevoServicio(newFakeAsistenciaRepo(), newFakeCacheRepo())

	res, err := svc.Actual(context.Background(), sesionAgente(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestActualSinUnidadEnSesion(t *testing.T) {
	svc := nuevoServicio(newFakeAsistenciaRepo(), newFakeCacheRepo())

	sesion := sesionAgente()
	sesion.UnidadID = nil
	sesion.PuestoID = nil

	res, err := svc.Actual(context.Background(), sesion, time.Now())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestGetAsistenciasFuerzaFiltroPropio(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	// Un agente pide los registros de otro usuario; el filtro se
	// reescribe al propio.
	_, _, err := svc.GetAsistencias(context.Background(), sesionAgente(), dto.FiltroAsistenciaDTO{
		UserID: "99999999-9999-4999-8999-999999999999",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, repo.ultimoFiltro.UserID)
}

func TestGetAsistenciasRespetaFiltroConHistorial(t *testing.T) {
	repo := newFakeAsistenciaRepo()
	svc := nuevoServicio(repo, newFakeCacheRepo())

	sesion := sesionAgente()
	sesion.Rol = roles.Gerente

	otro := "99999999-9999-4999-8999-999999999999"
	_, _, err := svc.GetAsistencias(context.Background(), sesion, dto.FiltroAsistenciaDTO{UserID: otro})
	require.NoError(t, err)
	assert.Equal(t, otro, repo.ultimoFiltro.UserID)
}

func TestRedondearHoras(t *testing.T) {
	assert.Equal(t, 6.0, redondearHoras(6*time.Hour))
	assert.Equal(t, 0.5, redondearHoras(30*time.Minute))
	assert.Equal(t, 7.58, redondearHoras(7*time.Hour+35*time.Minute))
	assert.Equal(t, 0.0, redondearHoras(0))
}
