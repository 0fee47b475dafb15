package counting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/application/dto"
	"github.com/contalibre/conteo-api/internal/domain"
	"github.com/contalibre/conteo-api/internal/domain/entity"
)

const (
	companyID = "c-1"
	actorID   = "u-1"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedCatalog crea dos artículos activos, uno inactivo y dos ubicaciones,
// con movimientos que dejan stock 10.5 en (tornillos, principal) y -2 en
// (tuercas, secundaria). Los demás pares no tienen historial.
func seedCatalog(db *memDB) {
	db.items = []*entity.Item{
		{ID: "i-1", CompanyID: companyID, ItemNumber: "ART-001", Name: "Tornillos", Unit: entity.UnitKg, Active: true},
		{ID: "i-2", CompanyID: companyID, ItemNumber: "ART-002", Name: "Tuercas", Unit: entity.UnitPiece, Active: true},
		{ID: "i-3", CompanyID: companyID, ItemNumber: "ART-003", Name: "Descontinuado", Unit: entity.UnitPiece, Active: false},
	}
	db.locations = []*entity.Location{
		{ID: "l-1", CompanyID: companyID, Name: "Bodega principal", IsMain: true},
		{ID: "l-2", CompanyID: companyID, Name: "Bodega secundaria"},
	}
	db.movements = []*entity.StockMovement{
		{ID: "m-1", CompanyID: companyID, ItemID: "i-1", LocationID: "l-1", QuantityDelta: dec("12"), Reason: entity.ReasonPurchase},
		{ID: "m-2", CompanyID: companyID, ItemID: "i-1", LocationID: "l-1", QuantityDelta: dec("-1.5"), Reason: entity.ReasonSale},
		{ID: "m-3", CompanyID: companyID, ItemID: "i-2", LocationID: "l-2", QuantityDelta: dec("-2"), Reason: entity.ReasonManual},
	}
}

func newSessionUC(db *memDB) *counting.SessionUseCase {
	return counting.NewSessionUseCase(
		&fakeTxRunner{db}, &fakeSessionRepo{db}, &fakePositionRepo{db}, &fakeLocationRepo{db},
	)
}

// createSession abre un conteo de todas las ubicaciones y devuelve su ID.
func createSession(t *testing.T, db *memDB) string {
	t.Helper()
	resp, err := newSessionUC(db).Create(context.Background(), companyID, actorID, dto.CreateSessionRequest{
		Name:          "Inventario anual",
		EffectiveDate: "2026-12-31",
	})
	require.NoError(t, err)
	return resp.ID
}

func positionByPair(t *testing.T, db *memDB, sessionID, itemID, locationID string) *entity.CountPosition {
	t.Helper()
	for _, p := range db.positions {
		if p.SessionID == sessionID && p.ItemID == itemID && p.LocationID == locationID {
			return p
		}
	}
	t.Fatalf("posición no encontrada: %s/%s", itemID, locationID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura de conteos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSession_CongelaEsperadosPorParActivo(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)

	resp, err := newSessionUC(db).Create(context.Background(), companyID, actorID, dto.CreateSessionRequest{
		Name:          "  Inventario anual  ",
		EffectiveDate: "2026-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "Inventario anual", resp.Name, "el nombre se recorta")
	assert.Equal(t, string(entity.StatusInProgress), resp.Status,
		"el conteo nace directamente en curso")
	assert.Equal(t, 4, resp.PositionCount,
		"2 artículos activos × 2 ubicaciones; el inactivo queda fuera")

	p := positionByPair(t, db, resp.ID, "i-1", "l-1")
	assert.True(t, p.ExpectedQty.Equal(dec("10.5")), "esperado = suma de deltas al abrir")
	assert.Nil(t, p.CountedQty, "nace sin contar")

	p = positionByPair(t, db, resp.ID, "i-2", "l-2")
	assert.True(t, p.ExpectedQty.Equal(dec("-2")), "un esperado negativo se congela tal cual")

	p = positionByPair(t, db, resp.ID, "i-1", "l-2")
	assert.True(t, p.ExpectedQty.IsZero(), "par sin historial nace con esperado cero")
}

func TestCreateSession_AlcanceUnaUbicacion(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	loc := "l-1"

	resp, err := newSessionUC(db).Create(context.Background(), companyID, actorID, dto.CreateSessionRequest{
		Name:          "Conteo bodega principal",
		EffectiveDate: "2026-06-30",
		LocationID:    &loc,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.PositionCount, "solo pares de la ubicación en alcance")
	for _, p := range db.positions {
		assert.Equal(t, "l-1", p.LocationID)
	}
}

func TestCreateSession_EntradasInvalidas(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	uc := newSessionUC(db)
	ctx := context.Background()

	_, err := uc.Create(ctx, companyID, actorID, dto.CreateSessionRequest{Name: "   ", EffectiveDate: "2026-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre en blanco")

	_, err = uc.Create(ctx, companyID, actorID, dto.CreateSessionRequest{Name: "Conteo", EffectiveDate: "31/12/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fecha con formato desconocido")

	otra := "l-ajena"
	db.locations = append(db.locations, &entity.Location{ID: "l-ajena", CompanyID: "c-2", Name: "Ajena"})
	_, err = uc.Create(ctx, companyID, actorID, dto.CreateSessionRequest{
		Name: "Conteo", EffectiveDate: "2026-01-01", LocationID: &otra,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "ubicación de otra empresa no es visible")
	assert.Empty(t, db.positions, "nada queda persistido tras el rollback")
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de cantidades contadas
// ──────────────────────────────────────────────────────────────────────────────

func newRecordUC(db *memDB) *counting.RecordCountUseCase {
	return counting.NewRecordCountUseCase(&fakePositionRepo{db}, &fakeSessionRepo{db})
}

func TestRecordCount_GuardaYDevuelveDiferenciaViva(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	pos := positionByPair(t, db, sessionID, "i-1", "l-1") // esperado 10.5

	comment := "faltan dos cajas"
	resp, err := newRecordUC(db).Record(pos.ID, companyID, actorID, dto.RecordCountRequest{
		CountedQty: dec("8.25"),
		Comment:    &comment,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.CountedQty)
	assert.True(t, resp.CountedQty.Equal(dec("8.25")), "se guarda sin redondeo")
	require.NotNil(t, resp.Difference)
	assert.True(t, resp.Difference.Equal(dec("-2.25")), "diferencia = contado − esperado")
	assert.Equal(t, "faltan dos cajas", resp.Comment)
	assert.True(t, resp.ExpectedQty.Equal(dec("10.5")), "el esperado no cambia al contar")
}

func TestRecordCount_UltimoRegistroGana(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	pos := positionByPair(t, db, sessionID, "i-1", "l-1")
	uc := newRecordUC(db)

	_, err := uc.Record(pos.ID, companyID, "u-ana", dto.RecordCountRequest{CountedQty: dec("7")})
	require.NoError(t, err)
	resp, err := uc.Record(pos.ID, companyID, "u-luis", dto.RecordCountRequest{CountedQty: dec("9")})
	require.NoError(t, err)

	assert.True(t, resp.CountedQty.Equal(dec("9")), "el reconteo pisa al anterior")
	require.NotNil(t, resp.CountedBy)
	assert.Equal(t, "u-luis", *resp.CountedBy)
}

func TestRecordCount_Rechazos(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	pos := positionByPair(t, db, sessionID, "i-1", "l-1")
	uc := newRecordUC(db)

	_, err := uc.Record(pos.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")

	_, err = uc.Record("p-inexistente", companyID, actorID, dto.RecordCountRequest{CountedQty: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Record(pos.ID, "c-ajena", actorID, dto.RecordCountRequest{CountedQty: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "empresa ajena no ve la posición")

	db.sessions[sessionID].Status = entity.StatusCompleted
	_, err = uc.Record(pos.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("1")})
	assert.ErrorIs(t, err, domain.ErrSessionClosed, "sesión cerrada no admite registros")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre y correcciones
// ──────────────────────────────────────────────────────────────────────────────

func newCompleteUC(db *memDB) *counting.CompleteSessionUseCase {
	return counting.NewCompleteSessionUseCase(&fakeTxRunner{db}, &fakeSessionRepo{db})
}

func TestComplete_GeneraUnaCorreccionPorDiferencia(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	record := newRecordUC(db)

	// esperado 10.5, contado 2.5 → corrección −8
	p1 := positionByPair(t, db, sessionID, "i-1", "l-1")
	_, err := record.Record(p1.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("2.5")})
	require.NoError(t, err)

	// esperado 0, contado 0 → sin corrección
	p2 := positionByPair(t, db, sessionID, "i-2", "l-1")
	_, err = record.Record(p2.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("0")})
	require.NoError(t, err)

	// i-1/l-2 y i-2/l-2 quedan sin contar → confirmación implícita, sin movimiento

	before := len(db.movements)
	resp, err := newCompleteUC(db).Complete(context.Background(), sessionID, companyID, actorID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CorrectionsCreated)
	assert.Equal(t, string(entity.StatusCompleted), resp.Session.Status)
	require.Len(t, db.movements, before+1, "solo la posición con diferencia genera movimiento")

	corr := db.movements[len(db.movements)-1]
	assert.True(t, corr.QuantityDelta.Equal(dec("-8")), "delta = contado − esperado")
	assert.Equal(t, entity.ReasonCountCorrection, corr.Reason)
	require.NotNil(t, corr.SourceSessionID)
	assert.Equal(t, sessionID, *corr.SourceSessionID)
	assert.Equal(t, actorID, corr.CreatedBy)

	// El libro queda cuadrado con lo contado.
	onHand, err := (&fakeMovementRepo{db}).OnHand(companyID, "i-1", "l-1")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("2.5")), "stock derivado tras el cierre = contado")
}

func TestComplete_RepetidoNoDuplicaCorrecciones(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	p := positionByPair(t, db, sessionID, "i-1", "l-1")
	_, err := newRecordUC(db).Record(p.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("1")})
	require.NoError(t, err)

	uc := newCompleteUC(db)
	_, err = uc.Complete(context.Background(), sessionID, companyID, actorID)
	require.NoError(t, err)
	movements := len(db.movements)

	_, err = uc.Complete(context.Background(), sessionID, companyID, actorID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una sesión completada no se cierra de nuevo")
	assert.Len(t, db.movements, movements, "sin correcciones duplicadas")
}

func TestComplete_CASPerdidoRevierteCorrecciones(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	p := positionByPair(t, db, sessionID, "i-1", "l-1")
	_, err := newRecordUC(db).Record(p.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("1")})
	require.NoError(t, err)

	// Un cierre concurrente gana la carrera justo antes del CAS.
	db.beforeMarkCompleted = func(db *memDB, id string) {
		db.sessions[id].Status = entity.StatusCompleted
	}

	before := len(db.movements)
	_, err = newCompleteUC(db).Complete(context.Background(), sessionID, companyID, actorID)
	assert.ErrorIs(t, err, domain.ErrConflict, "el perdedor recibe conflicto reintentable")
	assert.Len(t, db.movements, before, "el rollback descarta las correcciones del perdedor")
}

func TestComplete_FalloParcialRevierteTodo(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	record := newRecordUC(db)
	for _, pair := range [][2]string{{"i-1", "l-1"}, {"i-2", "l-2"}} {
		p := positionByPair(t, db, sessionID, pair[0], pair[1])
		_, err := record.Record(p.ID, companyID, actorID, dto.RecordCountRequest{CountedQty: dec("100")})
		require.NoError(t, err)
	}

	// La segunda corrección falla a mitad de la transacción.
	db.appendErr = errors.New("disco lleno")
	db.appendErrAfter = 1

	before := len(db.movements)
	_, err := newCompleteUC(db).Complete(context.Background(), sessionID, companyID, actorID)
	require.Error(t, err)
	assert.Len(t, db.movements, before, "ninguna corrección sobrevive a un cierre fallido")
	assert.Equal(t, entity.StatusInProgress, db.sessions[sessionID].Status,
		"la sesión sigue en curso y el cierre puede reintentarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación y listados
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_SoloEstadosNoTerminales(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	uc := newSessionUC(db)

	resp, err := uc.Cancel(sessionID, companyID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusCancelled), resp.Status)

	_, err = uc.Cancel(sessionID, companyID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "cancelar dos veces no es válido")

	_, err = uc.Cancel("s-inexistente", companyID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPositions_FiltraPorEmpresaYOrdena(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	uc := newSessionUC(db)

	_, err := uc.Positions(sessionID, "c-ajena")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	positions, err := uc.Positions(sessionID, companyID)
	require.NoError(t, err)
	require.Len(t, positions, 4)
	for i := 1; i < len(positions); i++ {
		assert.LessOrEqual(t, positions[i-1].ItemNumber, positions[i].ItemNumber,
			"orden por número de artículo")
	}
}

func TestList_FiltraPorEstado(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	first := createSession(t, db)
	time.Sleep(time.Millisecond)
	createSession(t, db)
	uc := newSessionUC(db)
	_, err := uc.Cancel(first, companyID)
	require.NoError(t, err)

	out, err := uc.List(companyID, dto.SessionListRequest{Status: "in_progress"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, string(entity.StatusInProgress), out[0].Status)

	_, err = uc.List(companyID, dto.SessionListRequest{Status: "abierta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado desconocido en el filtro")
}

// El snapshot de apertura no se ve afectado por movimientos posteriores.
func TestExpectedQty_InmutableTrasMovimientosPosteriores(t *testing.T) {
	db := newMemDB()
	seedCatalog(db)
	sessionID := createSession(t, db)
	expected := positionByPair(t, db, sessionID, "i-1", "l-1").ExpectedQty

	err := (&fakeMovementRepo{db}).Append(&entity.StockMovement{
		ID: "m-x", CompanyID: companyID, ItemID: "i-1", LocationID: "l-1",
		QuantityDelta: dec("99"), Reason: entity.ReasonPurchase,
	})
	require.NoError(t, err)

	p := positionByPair(t, db, sessionID, "i-1", "l-1")
	assert.True(t, p.ExpectedQty.Equal(expected),
		"la cantidad esperada congelada no sigue al libro")
}
