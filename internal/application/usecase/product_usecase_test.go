package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/usecase"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con snapshot/restore en el txRunner para imitar el Rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	clients    map[string]*entity.Client
	labels     []*entity.Label
	movements  []*entity.Movement
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		clients:    make(map[string]*entity.Client),
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.products {
		pc := *p
		cp.products[id] = &pc
	}
	for id, c := range s.categories {
		cc := *c
		cp.categories[id] = &cc
	}
	for id, c := range s.clients {
		cc := *c
		cp.clients[id] = &cc
	}
	cp.labels = append(cp.labels, s.labels...)
	cp.movements = append(cp.movements, s.movements...)
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.categories = snap.categories
	s.clients = snap.clients
	s.labels = snap.labels
	s.movements = snap.movements
}

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCodigoQR(codigo string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.CodigoQR == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) List(_ repository.ProductFilter, _, _ int) ([]*entity.Product, int, error) {
	out := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) Delete(id string) error {
	if _, ok := r.store.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

type fakeCategoryRepo struct{ store *memStore }

func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.store.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(string) (*entity.Category, error)    { return nil, nil }
func (r *fakeCategoryRepo) Update(*entity.Category) error                 { return nil }
func (r *fakeCategoryRepo) List(_, _ int) ([]*entity.Category, int, error) { return nil, 0, nil }
func (r *fakeCategoryRepo) Delete(string) error                           { return nil }

type fakeClientRepo struct{ store *memStore }

func (r *fakeClientRepo) Create(c *entity.Client) error {
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.store.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByEmail(string) (*entity.Client, error)    { return nil, nil }
func (r *fakeClientRepo) Update(*entity.Client) error                  { return nil }
func (r *fakeClientRepo) List(_, _ int) ([]*entity.Client, int, error) { return nil, 0, nil }
func (r *fakeClientRepo) Delete(string) error                          { return nil }

type fakeLabelRepo struct{ store *memStore }

func (r *fakeLabelRepo) Create(l *entity.Label) error {
	cp := *l
	r.store.labels = append(r.store.labels, &cp)
	return nil
}

func (r *fakeLabelRepo) GetByProduct(productID string) (*entity.Label, error) {
	for i := len(r.store.labels) - 1; i >= 0; i-- {
		if r.store.labels[i].ProductID == productID {
			cp := *r.store.labels[i]
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeMovementRepo struct{ store *memStore }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }

func (r *fakeMovementRepo) List(_ repository.MovementFilter, _, _ int) ([]*entity.Movement, int, error) {
	return nil, 0, nil
}

func (r *fakeMovementRepo) ListForReport(_ repository.MovementFilter) ([]repository.MovementReportRow, error) {
	return nil, nil
}

type fakeTxRunner struct{ store *memStore }

func (tx *fakeTxRunner) RunProduct(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	labelRepo repository.LabelRepository,
) error) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeProductRepo{tx.store}, &fakeMovementRepo{tx.store}, &fakeLabelRepo{tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

// fakeQRGen registra invocaciones y permite forzar fallos de render.
type fakeQRGen struct {
	fail  bool
	calls int
}

func (g *fakeQRGen) GenerateProductQR(productID, codigo string) (string, error) {
	g.calls++
	if g.fail {
		return "", errors.New("png: disco lleno")
	}
	return "data/productos/etiquetas_qr/" + codigo + ".png", nil
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memStore
	qrGen *fakeQRGen
	uc    *usecase.ProductUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	store.categories["cat1"] = &entity.Category{ID: "cat1", Name: "Materia prima"}
	store.clients["c1"] = &entity.Client{ID: "c1", Name: "Chocolates del Valle"}

	qrGen := &fakeQRGen{}
	uc := usecase.NewProductUseCase(
		&fakeTxRunner{store},
		&fakeProductRepo{store},
		&fakeCategoryRepo{store},
		&fakeClientRepo{store},
		&fakeLabelRepo{store},
		qrGen,
	)
	return &fixture{store: store, qrGen: qrGen, uc: uc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_GeneraCodigoEtiquetaYMovimientoInicial(t *testing.T) {
	f := newFixture()

	p, err := f.uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name:       "Cacao crudo",
		CategoryID: "cat1",
		Unit:       "kg",
		Quantity:   qty("100"),
	})
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.True(t, strings.HasPrefix(p.CodigoQR, "PROD-"), "código con prefijo PROD, fue %s", p.CodigoQR)
	assert.Equal(t, usecase.EstadoInicial, p.State, "sin estado explícito toma el inicial")
	assert.True(t, p.Quantity.Equal(qty("100")))

	// Etiqueta persistida con la ruta del PNG generado.
	require.Len(t, f.store.labels, 1)
	assert.Equal(t, p.ID, f.store.labels[0].ProductID)
	assert.Equal(t, "data/productos/etiquetas_qr/"+p.CodigoQR+".png", f.store.labels[0].FilePath)

	// Movimiento inicial de entrada con el stock de arranque.
	require.Len(t, f.store.movements, 1)
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementEntrada, mov.Type)
	assert.Equal(t, "Stock inicial", mov.Notes)
	assert.True(t, mov.Quantity.Equal(qty("100")))
	assert.Equal(t, p.ID, mov.ProductID)
}

func TestProductCreate_FalloDeEtiqueta_RevierteTodo(t *testing.T) {
	f := newFixture()
	f.qrGen.fail = true

	_, err := f.uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name:       "Cacao crudo",
		CategoryID: "cat1",
		Quantity:   qty("10"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifact)

	// Rollback completo: sin producto, sin etiqueta, sin movimiento.
	assert.Empty(t, f.store.products)
	assert.Empty(t, f.store.labels)
	assert.Empty(t, f.store.movements)
}

// collidingProductRepo simula un almacenamiento donde todo código sorteado ya
// está tomado, forzando el agotamiento del re-tiro.
type collidingProductRepo struct{ fakeProductRepo }

func (r *collidingProductRepo) GetByCodigoQR(codigo string) (*entity.Product, error) {
	return &entity.Product{ID: "otro", CodigoQR: codigo}, nil
}

func TestProductCreate_CodigosAgotados_Duplicate(t *testing.T) {
	store := newMemStore()
	store.categories["cat1"] = &entity.Category{ID: "cat1", Name: "Materia prima"}

	uc := usecase.NewProductUseCase(
		&fakeTxRunner{store},
		&collidingProductRepo{fakeProductRepo{store}},
		&fakeCategoryRepo{store},
		&fakeClientRepo{store},
		&fakeLabelRepo{store},
		&fakeQRGen{},
	)

	_, err := uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name:       "Cacao tratado",
		CategoryID: "cat1",
		Quantity:   qty("10"),
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// El sorteo agotado corta antes de la transacción: nada queda escrito.
	assert.Empty(t, store.products)
	assert.Empty(t, store.labels)
	assert.Empty(t, store.movements)
}

func TestProductCreate_CategoriaInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name:       "Cacao crudo",
		CategoryID: "no-existe",
		Quantity:   qty("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCreate_ValidacionDeEntrada(t *testing.T) {
	f := newFixture()

	cases := []dto.CreateProductRequest{
		{Name: "", CategoryID: "cat1"},
		{Name: "ab", CategoryID: "cat1"},                            // nombre muy corto
		{Name: strings.Repeat("x", 201), CategoryID: "cat1"},        // nombre muy largo
		{Name: "Cacao", CategoryID: ""},                             // sin categoría
		{Name: "Cacao", CategoryID: "cat1", Quantity: qty("-1")},    // cantidad negativa
	}
	for _, in := range cases {
		_, err := f.uc.Create(context.Background(), "u1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %+v", in)
	}
}

func TestProductCreate_ClienteOpcionalValidado(t *testing.T) {
	f := newFixture()

	p, err := f.uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name:       "Cacao del Valle",
		CategoryID: "cat1",
		ClientID:   "c1",
		Quantity:   qty("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", p.ClientID)

	_, err = f.uc.Create(context.Background(), "u1", dto.CreateProductRequest{
		Name:       "Cacao ajeno",
		CategoryID: "cat1",
		ClientID:   "cliente-fantasma",
		Quantity:   qty("5"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDelete_Inexistente(t *testing.T) {
	f := newFixture()

	err := f.uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
