package counting_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/domain/entity"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// memDB base de datos en memoria compartida por los fakes. El fakeTxRunner
// la clona antes de cada transacción y la restaura si el callback falla, para
// reproducir la semántica de rollback de PostgreSQL.
type memDB struct {
	items     []*entity.Item
	locations []*entity.Location
	movements []*entity.StockMovement
	sessions  map[string]*entity.CountSession
	positions map[string]*entity.CountPosition

	// hooks de inyección de fallos / carreras
	beforeMarkCompleted func(db *memDB, sessionID string)
	appendErr           error
	appendErrAfter      int // número de appends exitosos antes de fallar
}

func newMemDB() *memDB {
	return &memDB{
		sessions:  make(map[string]*entity.CountSession),
		positions: make(map[string]*entity.CountPosition),
	}
}

func (db *memDB) clone() *memDB {
	c := newMemDB()
	c.items = append([]*entity.Item(nil), db.items...)
	c.locations = append([]*entity.Location(nil), db.locations...)
	c.movements = append([]*entity.StockMovement(nil), db.movements...)
	for id, s := range db.sessions {
		cp := *s
		c.sessions[id] = &cp
	}
	for id, p := range db.positions {
		cp := *p
		c.positions[id] = &cp
	}
	return c
}

func (db *memDB) restore(from *memDB) {
	db.items = from.items
	db.locations = from.locations
	db.movements = from.movements
	db.sessions = from.sessions
	db.positions = from.positions
}

func (db *memDB) itemByID(id string) *entity.Item {
	for _, it := range db.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (db *memDB) locationByID(id string) *entity.Location {
	for _, l := range db.locations {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ── fakes de repositorio ──────────────────────────────────────────────────────

type fakeItemRepo struct{ db *memDB }

func (r *fakeItemRepo) Create(item *entity.Item) error { r.db.items = append(r.db.items, item); return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.db.itemByID(id), nil
}
func (r *fakeItemRepo) Update(item *entity.Item) error { return nil }
func (r *fakeItemRepo) ListByCompany(companyID string, f repository.ItemFilter) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.db.items {
		if it.CompanyID == companyID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *fakeItemRepo) ListActive(companyID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.db.items {
		if it.CompanyID == companyID && it.Active {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *fakeItemRepo) Search(companyID, query string, limit int) ([]*entity.Item, error) {
	return nil, nil
}
func (r *fakeItemRepo) Deactivate(id string) error {
	if it := r.db.itemByID(id); it != nil {
		it.Active = false
	}
	return nil
}

type fakeLocationRepo struct{ db *memDB }

func (r *fakeLocationRepo) Create(location *entity.Location) error {
	r.db.locations = append(r.db.locations, location)
	return nil
}
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.db.locationByID(id), nil
}
func (r *fakeLocationRepo) Update(location *entity.Location) error { return nil }
func (r *fakeLocationRepo) ListByCompany(companyID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.db.locations {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeMovementRepo struct{ db *memDB }

func (r *fakeMovementRepo) Append(m *entity.StockMovement) error {
	if r.db.appendErr != nil {
		if r.db.appendErrAfter <= 0 {
			return r.db.appendErr
		}
		r.db.appendErrAfter--
	}
	r.db.movements = append(r.db.movements, m)
	return nil
}
func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *fakeMovementRepo) List(companyID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) ListBySession(sessionID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.db.movements {
		if m.SourceSessionID != nil && *m.SourceSessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) OnHand(companyID, itemID, locationID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.db.movements {
		if m.CompanyID == companyID && m.ItemID == itemID && m.LocationID == locationID {
			sum = sum.Add(m.QuantityDelta)
		}
	}
	return sum, nil
}
func (r *fakeMovementRepo) OnHandAll(companyID string, locationID *string) (map[repository.PairKey]decimal.Decimal, error) {
	out := make(map[repository.PairKey]decimal.Decimal)
	for _, m := range r.db.movements {
		if m.CompanyID != companyID {
			continue
		}
		if locationID != nil && m.LocationID != *locationID {
			continue
		}
		key := repository.PairKey{ItemID: m.ItemID, LocationID: m.LocationID}
		out[key] = out[key].Add(m.QuantityDelta)
	}
	return out, nil
}
func (r *fakeMovementRepo) Levels(companyID string, locationID *string, category *entity.ItemCategory) ([]repository.StockLevelRow, error) {
	return nil, nil
}
func (r *fakeMovementRepo) LowStock(companyID string, limit int) ([]repository.LowStockRow, error) {
	return nil, nil
}

type fakeSessionRepo struct{ db *memDB }

func (r *fakeSessionRepo) Create(s *entity.CountSession) error {
	cp := *s
	r.db.sessions[s.ID] = &cp
	return nil
}
func (r *fakeSessionRepo) GetByID(id string) (*entity.CountSession, error) {
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
func (r *fakeSessionRepo) List(companyID string, f repository.SessionFilter) ([]*entity.CountSession, error) {
	var out []*entity.CountSession
	for _, s := range r.db.sessions {
		if s.CompanyID != companyID {
			continue
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
func (r *fakeSessionRepo) MarkCompleted(id, completedBy string, completedAt time.Time) (bool, error) {
	if r.db.beforeMarkCompleted != nil {
		hook := r.db.beforeMarkCompleted
		r.db.beforeMarkCompleted = nil
		hook(r.db, id)
	}
	s, ok := r.db.sessions[id]
	if !ok || s.Status != entity.StatusInProgress {
		return false, nil
	}
	s.Status = entity.StatusCompleted
	s.CompletedBy = &completedBy
	s.CompletedAt = &completedAt
	return true, nil
}
func (r *fakeSessionRepo) MarkCancelled(id string) (bool, error) {
	s, ok := r.db.sessions[id]
	if !ok || s.Status.Terminal() {
		return false, nil
	}
	s.Status = entity.StatusCancelled
	return true, nil
}

type fakePositionRepo struct{ db *memDB }

func (r *fakePositionRepo) BulkCreate(positions []*entity.CountPosition) error {
	for _, p := range positions {
		cp := *p
		r.db.positions[p.ID] = &cp
	}
	return nil
}
func (r *fakePositionRepo) GetByID(id string) (*entity.CountPosition, error) {
	p, ok := r.db.positions[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakePositionRepo) GetDetailed(id string) (*repository.PositionDetail, error) {
	p, ok := r.db.positions[id]
	if !ok {
		return nil, nil
	}
	d := r.detail(p)
	return &d, nil
}
func (r *fakePositionRepo) ListBySession(sessionID string) ([]*entity.CountPosition, error) {
	var out []*entity.CountPosition
	for _, p := range r.db.positions {
		if p.SessionID == sessionID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakePositionRepo) ListBySessionDetailed(sessionID string) ([]repository.PositionDetail, error) {
	var out []repository.PositionDetail
	for _, p := range r.db.positions {
		if p.SessionID == sessionID {
			out = append(out, r.detail(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemNumber != out[j].ItemNumber {
			return out[i].ItemNumber < out[j].ItemNumber
		}
		return out[i].LocationName < out[j].LocationName
	})
	return out, nil
}
func (r *fakePositionRepo) RecordCount(positionID string, countedQty decimal.Decimal, comment *string, countedBy string, countedAt time.Time) (bool, error) {
	p, ok := r.db.positions[positionID]
	if !ok {
		return false, nil
	}
	s, ok := r.db.sessions[p.SessionID]
	if !ok || s.Status != entity.StatusInProgress {
		return false, nil
	}
	p.CountedQty = &countedQty
	p.CountedBy = &countedBy
	p.CountedAt = &countedAt
	if comment != nil {
		p.Comment = *comment
	}
	return true, nil
}

func (r *fakePositionRepo) detail(p *entity.CountPosition) repository.PositionDetail {
	d := repository.PositionDetail{Position: *p}
	if it := r.db.itemByID(p.ItemID); it != nil {
		d.ItemNumber = it.ItemNumber
		d.ItemName = it.Name
		d.Unit = it.Unit
	}
	if l := r.db.locationByID(p.LocationID); l != nil {
		d.LocationName = l.Name
	}
	return d
}

// fakeTxRunner corre los callbacks sobre la memDB con semántica de rollback.
type fakeTxRunner struct{ db *memDB }

var _ counting.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) RunSnapshot(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	movementRepo repository.StockMovementRepository,
	sessionRepo repository.CountSessionRepository,
	positionRepo repository.CountPositionRepository,
) error) error {
	backup := r.db.clone()
	err := fn(
		&fakeItemRepo{r.db}, &fakeLocationRepo{r.db}, &fakeMovementRepo{r.db},
		&fakeSessionRepo{r.db}, &fakePositionRepo{r.db},
	)
	if err != nil {
		r.db.restore(backup)
	}
	return err
}

func (r *fakeTxRunner) RunCompletion(ctx context.Context, fn func(
	movementRepo repository.StockMovementRepository,
	sessionRepo repository.CountSessionRepository,
	positionRepo repository.CountPositionRepository,
) error) error {
	backup := r.db.clone()
	err := fn(&fakeMovementRepo{r.db}, &fakeSessionRepo{r.db}, &fakePositionRepo{r.db})
	if err != nil {
		r.db.restore(backup)
	}
	return err
}
