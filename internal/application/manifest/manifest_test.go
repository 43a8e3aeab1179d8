package manifest_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/application/inventory"
	"github.com/greenriver-post/almacen-api/internal/application/manifest"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El txRunner imita la atomicidad real con snapshot/restore:
// si el callback falla no queda ninguna escritura, igual que con Rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	clients   map[string]*entity.Client
	manifests map[string]*entity.Manifest
	lines     []*entity.ManifestLine
	movements []*entity.Movement
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		clients:   make(map[string]*entity.Client),
		manifests: make(map[string]*entity.Manifest),
	}
}

func (s *memStore) addProduct(p *entity.Product) { cp := *p; s.products[p.ID] = &cp }
func (s *memStore) addClient(c *entity.Client)   { cp := *c; s.clients[c.ID] = &cp }
func (s *memStore) addManifest(m *entity.Manifest) {
	cp := *m
	s.manifests[m.ID] = &cp
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.products {
		pc := *p
		cp.products[id] = &pc
	}
	for id, c := range s.clients {
		cc := *c
		cp.clients[id] = &cc
	}
	for id, m := range s.manifests {
		mc := *m
		cp.manifests[id] = &mc
	}
	cp.lines = append(cp.lines, s.lines...)
	cp.movements = append(cp.movements, s.movements...)
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.clients = snap.clients
	s.manifests = snap.manifests
	s.lines = snap.lines
	s.movements = snap.movements
}

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.store.addProduct(p); return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCodigoQR(string) (*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error { r.store.addProduct(p); return nil }

func (r *fakeProductRepo) List(_ repository.ProductFilter, _, _ int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Delete(id string) error { delete(r.store.products, id); return nil }

type fakeClientRepo struct{ store *memStore }

func (r *fakeClientRepo) Create(c *entity.Client) error { r.store.addClient(c); return nil }

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.store.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByEmail(string) (*entity.Client, error)   { return nil, nil }
func (r *fakeClientRepo) Update(c *entity.Client) error               { r.store.addClient(c); return nil }
func (r *fakeClientRepo) List(_, _ int) ([]*entity.Client, int, error) { return nil, 0, nil }
func (r *fakeClientRepo) Delete(id string) error                      { delete(r.store.clients, id); return nil }

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

type fakeManifestRepo struct{ store *memStore }

func (r *fakeManifestRepo) Create(m *entity.Manifest) error {
	for _, existing := range r.store.manifests {
		if existing.Numero == m.Numero {
			return domain.ErrDuplicate
		}
	}
	r.store.addManifest(m)
	return nil
}

func (r *fakeManifestRepo) CreateLine(line *entity.ManifestLine) error {
	cp := *line
	r.store.lines = append(r.store.lines, &cp)
	return nil
}

func (r *fakeManifestRepo) GetByID(id string) (*entity.Manifest, error) {
	m, ok := r.store.manifests[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeManifestRepo) GetForUpdate(id string) (*entity.Manifest, error) { return r.GetByID(id) }

func (r *fakeManifestRepo) GetLines(manifestID string) ([]*entity.ManifestLine, error) {
	var out []*entity.ManifestLine
	for _, l := range r.store.lines {
		if l.ManifestID == manifestID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeManifestRepo) CountByDate(t time.Time) (int, error) {
	count := 0
	for _, m := range r.store.manifests {
		y1, m1, d1 := m.CreatedAt.Date()
		y2, m2, d2 := t.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			count++
		}
	}
	return count, nil
}

func (r *fakeManifestRepo) Update(m *entity.Manifest) error {
	if _, ok := r.store.manifests[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.addManifest(m)
	return nil
}

func (r *fakeManifestRepo) List(_ repository.ManifestFilter, _, _ int) ([]*entity.Manifest, int, error) {
	return nil, 0, nil
}

func (r *fakeManifestRepo) ListForReport(_ repository.ManifestFilter) ([]repository.DeliveryReportRow, error) {
	return nil, nil
}

type fakeTxRunner struct{ store *memStore }

func (tx *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeMovementRepo{tx.store}, &fakeProductRepo{tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

func (tx *fakeTxRunner) RunTransform(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	transformRepo repository.TransformationRepository,
) error) error {
	return errors.New("no usado en estos tests")
}

func (tx *fakeTxRunner) RunManifest(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	manifestRepo repository.ManifestRepository,
) error) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeMovementRepo{tx.store}, &fakeProductRepo{tx.store}, &fakeManifestRepo{tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

// fakeQRGen y fakePDFGen registran invocaciones y permiten forzar fallos.
type fakeQRGen struct {
	fail  bool
	calls int
}

func (g *fakeQRGen) GenerateManifestQR(numero, codigo string) (string, error) {
	g.calls++
	if g.fail {
		return "", errors.New("png: disco lleno")
	}
	return filepath.Join("data", "manifiestos", "en_proceso", "qr_"+numero+".png"), nil
}

type fakePDFGen struct {
	fail      bool
	calls     int
	lastFinal bool
	lastLines []manifest.LineForPDF
}

func (g *fakePDFGen) GenerateManifestPDF(
	m *entity.Manifest,
	client *entity.Client,
	lines []manifest.LineForPDF,
	qrPath, outputPath string,
	final bool,
) error {
	g.calls++
	g.lastFinal = final
	g.lastLines = lines
	if g.fail {
		return errors.New("maroto: render fallido")
	}
	return nil
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store   *memStore
	qrGen   *fakeQRGen
	pdfGen  *fakePDFGen
	create  *manifest.CreateManifestUseCase
	confirm *manifest.ConfirmDeliveryUseCase
	status  *manifest.UpdateStatusUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	store.addClient(&entity.Client{ID: "c1", Name: "Chocolates del Valle"})
	store.addProduct(&entity.Product{ID: "p1", Name: "Cacao tratado", Unit: "kg", Quantity: qty("100")})
	store.addProduct(&entity.Product{ID: "p2", Name: "Cascarilla", Unit: "kg", Quantity: qty("40")})

	tx := &fakeTxRunner{store}
	productRepo := &fakeProductRepo{store}
	clientRepo := &fakeClientRepo{store}
	manifestRepo := &fakeManifestRepo{store}
	qrGen := &fakeQRGen{}
	pdfGen := &fakePDFGen{}
	paths := manifest.ArtifactPaths{DataDir: "data"}
	inventoryUC := inventory.NewRegisterMovementUseCase(tx, productRepo)

	return &fixture{
		store:   store,
		qrGen:   qrGen,
		pdfGen:  pdfGen,
		create:  manifest.NewCreateManifestUseCase(tx, clientRepo, productRepo, inventoryUC, qrGen, pdfGen, paths),
		confirm: manifest.NewConfirmDeliveryUseCase(tx, clientRepo, pdfGen, paths),
		status:  manifest.NewUpdateStatusUseCase(manifestRepo),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateManifest_DescuentaStockYGeneraArtefactos(t *testing.T) {
	f := newFixture()

	m, lines, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "c1",
		Lines: []dto.ManifestLineRequest{
			{ProductID: "p1", Quantity: qty("25")},
			{ProductID: "p2", Quantity: qty("10")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Len(t, lines, 2)

	expectedNumero := fmt.Sprintf("MAN-%s-0001", time.Now().Format("20060102"))
	assert.Equal(t, expectedNumero, m.Numero)
	assert.Equal(t, entity.ManifestEnProceso, m.State)
	assert.True(t, strings.HasPrefix(m.CodigoQR, "MAN-QR-"), "código de verificación con prefijo MAN-QR, fue %s", m.CodigoQR)
	assert.Equal(t, filepath.Join("data", "manifiestos", "en_proceso", m.Numero+".pdf"), m.PDFPathProceso)

	// Stock descontado por línea con su movimiento de salida.
	assert.True(t, f.store.products["p1"].Quantity.Equal(qty("75")))
	assert.True(t, f.store.products["p2"].Quantity.Equal(qty("30")))
	require.Len(t, f.store.movements, 2)
	for _, mov := range f.store.movements {
		assert.Equal(t, entity.MovementSalida, mov.Type)
		assert.Contains(t, mov.Notes, m.Numero)
	}

	assert.Equal(t, 1, f.qrGen.calls)
	assert.Equal(t, 1, f.pdfGen.calls)
	assert.False(t, f.pdfGen.lastFinal)
}

func TestCreateManifest_ConsecutivoPorDia(t *testing.T) {
	f := newFixture()

	// Con tres manifiestos ya creados hoy, el siguiente termina en 0004.
	for i := 1; i <= 4; i++ {
		m, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
			ClientID: "c1",
			Lines:    []dto.ManifestLineRequest{{ProductID: "p1", Quantity: qty("1")}},
		})
		require.NoError(t, err)
		expected := fmt.Sprintf("MAN-%s-%04d", time.Now().Format("20060102"), i)
		assert.Equal(t, expected, m.Numero)
	}
}

func TestCreateManifest_NumeroTomadoEnCarrera_FallaSinReintento(t *testing.T) {
	f := newFixture()

	// Una creación concurrente ya persistió el consecutivo de hoy; su fila
	// quedó con fecha de ayer para que el conteo del día no la vea, igual que
	// en la carrera real entre conteo e inserción.
	f.store.addManifest(&entity.Manifest{
		ID:        "m-ajeno",
		Numero:    fmt.Sprintf("MAN-%s-0001", time.Now().Format("20060102")),
		ClientID:  "c1",
		State:     entity.ManifestEnProceso,
		CreatedAt: time.Now().AddDate(0, 0, -1),
	})

	_, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "c1",
		Lines:    []dto.ManifestLineRequest{{ProductID: "p1", Quantity: qty("25")}},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// Rollback completo: stock intacto, solo el manifiesto ajeno, sin líneas
	// ni movimientos.
	assert.True(t, f.store.products["p1"].Quantity.Equal(qty("100")))
	assert.Len(t, f.store.manifests, 1)
	assert.Empty(t, f.store.lines)
	assert.Empty(t, f.store.movements)
}

func TestCreateManifest_ReportaTodosLosFaltantes(t *testing.T) {
	f := newFixture()

	_, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "c1",
		Lines: []dto.ManifestLineRequest{
			{ProductID: "p1", Quantity: qty("150")}, // disponible 100
			{ProductID: "p2", Quantity: qty("45")},  // disponible 40
		},
	})
	require.Error(t, err)

	var stockErr *domain.ManifestStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 2, "se reportan todos los faltantes, no solo el primero")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada parcial: stock intacto, sin manifiesto, sin líneas ni movimientos.
	assert.True(t, f.store.products["p1"].Quantity.Equal(qty("100")))
	assert.True(t, f.store.products["p2"].Quantity.Equal(qty("40")))
	assert.Empty(t, f.store.manifests)
	assert.Empty(t, f.store.lines)
	assert.Empty(t, f.store.movements)
}

func TestCreateManifest_LineasRepetidasSumanRequerido(t *testing.T) {
	f := newFixture()

	// 60 + 60 del mismo producto supera el disponible (100) aunque cada línea
	// por separado alcance.
	_, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "c1",
		Lines: []dto.ManifestLineRequest{
			{ProductID: "p1", Quantity: qty("60")},
			{ProductID: "p1", Quantity: qty("60")},
		},
	})
	var stockErr *domain.ManifestStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.True(t, stockErr.Shortages[0].Requested.Equal(qty("120")))
	assert.True(t, f.store.products["p1"].Quantity.Equal(qty("100")))
}

func TestCreateManifest_FalloDePDF_RevierteTodo(t *testing.T) {
	f := newFixture()
	f.pdfGen.fail = true

	_, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "c1",
		Lines:    []dto.ManifestLineRequest{{ProductID: "p1", Quantity: qty("25")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifact)

	// El rollback deshace manifiesto, líneas, stock y movimientos.
	assert.True(t, f.store.products["p1"].Quantity.Equal(qty("100")))
	assert.Empty(t, f.store.manifests)
	assert.Empty(t, f.store.lines)
	assert.Empty(t, f.store.movements)
}

func TestCreateManifest_ClienteInexistente(t *testing.T) {
	f := newFixture()

	_, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "no-existe",
		Lines:    []dto.ManifestLineRequest{{ProductID: "p1", Quantity: qty("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateManifest_SinLineas(t *testing.T) {
	f := newFixture()

	_, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación de entrega
// ──────────────────────────────────────────────────────────────────────────────

func createdManifest(t *testing.T, f *fixture) *entity.Manifest {
	t.Helper()
	m, _, err := f.create.Create(context.Background(), "u1", dto.CreateManifestRequest{
		ClientID: "c1",
		Lines:    []dto.ManifestLineRequest{{ProductID: "p1", Quantity: qty("25")}},
	})
	require.NoError(t, err)
	return m
}

func TestConfirmDelivery_PasaAEntregadoYGeneraPDFFinal(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	confirmed, err := f.confirm.Confirm(context.Background(), m.ID, m.CodigoQR, "firma-base64")
	require.NoError(t, err)

	assert.Equal(t, entity.ManifestEntregado, confirmed.State)
	assert.Equal(t, "firma-base64", confirmed.FirmaCliente)
	require.NotNil(t, confirmed.DeliveredAt)
	assert.Equal(t, filepath.Join("data", "manifiestos", "finalizados", m.Numero+"_final.pdf"), confirmed.PDFPathFinal)

	// El PDF final se renderiza con la vista de entrega.
	assert.True(t, f.pdfGen.lastFinal)
	require.Len(t, f.pdfGen.lastLines, 1)
	assert.Equal(t, "Cacao tratado", f.pdfGen.lastLines[0].ProductName)

	stored := f.store.manifests[m.ID]
	assert.Equal(t, entity.ManifestEntregado, stored.State)
}

func TestConfirmDelivery_CodigoIncorrecto_NoCambiaEstado(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	_, err := f.confirm.Confirm(context.Background(), m.ID, "MAN-QR-INCORRECTO", "firma")
	assert.ErrorIs(t, err, domain.ErrInvalidCode,
		"código equivocado responde ErrInvalidCode, no ErrNotFound")

	stored := f.store.manifests[m.ID]
	assert.Equal(t, entity.ManifestEnProceso, stored.State)
	assert.Empty(t, stored.FirmaCliente)
	assert.Nil(t, stored.DeliveredAt)
}

func TestConfirmDelivery_SegundaConfirmacion_YaEntregado(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	_, err := f.confirm.Confirm(context.Background(), m.ID, m.CodigoQR, "firma-1")
	require.NoError(t, err)

	_, err = f.confirm.Confirm(context.Background(), m.ID, m.CodigoQR, "firma-2")
	assert.ErrorIs(t, err, domain.ErrAlreadyDelivered)

	// La primera firma queda intacta.
	assert.Equal(t, "firma-1", f.store.manifests[m.ID].FirmaCliente)
}

func TestConfirmDelivery_ManifiestoCancelado_TransicionInvalida(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	_, err := f.status.UpdateStatus(context.Background(), m.ID, entity.ManifestCancelado, "")
	require.NoError(t, err)

	_, err = f.confirm.Confirm(context.Background(), m.ID, m.CodigoQR, "firma")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirmDelivery_FalloDePDFFinal_Revierte(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)
	f.pdfGen.fail = true

	_, err := f.confirm.Confirm(context.Background(), m.ID, m.CodigoQR, "firma")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArtifact)

	stored := f.store.manifests[m.ID]
	assert.Equal(t, entity.ManifestEnProceso, stored.State, "el fallo del PDF final revierte la confirmación")
	assert.Empty(t, stored.PDFPathFinal)
}

func TestConfirmDelivery_SinFirma_EsInvalido(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	_, err := f.confirm.Confirm(context.Background(), m.ID, m.CodigoQR, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_EnTransitoVinculaDelivery(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	updated, err := f.status.UpdateStatus(context.Background(), m.ID, entity.ManifestEnTransito, "delivery-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ManifestEnTransito, updated.State)
	assert.Equal(t, "delivery-1", updated.DeliveredBy)
}

func TestUpdateStatus_EstadoDesconocido_NotFound(t *testing.T) {
	f := newFixture()
	m := createdManifest(t, f)

	_, err := f.status.UpdateStatus(context.Background(), m.ID, "perdido", "")
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"estado no reconocido responde not found sin tocar almacenamiento")

	assert.Equal(t, entity.ManifestEnProceso, f.store.manifests[m.ID].State)
}

func TestUpdateStatus_ManifiestoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.status.UpdateStatus(context.Background(), "no-existe", entity.ManifestEnTransito, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
