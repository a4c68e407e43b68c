package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"taller/internal/config"
	"taller/internal/dto"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────
// All stubs return DB() == nil so runTx calls fn(nil) directly.

type stubClienteRepo struct {
	mu        sync.Mutex
	clientes  map[uuid.UUID]*model.Cliente
	busquedas int
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, _ *gorm.DB, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	r.clientes[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) SearchByTelefono(_ context.Context, parcial string, limit int) ([]model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busquedas++
	var out []model.Cliente
	for _, c := range r.clientes {
		if strings.Contains(strings.ToLower(c.Telefono), strings.ToLower(parcial)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NombreCompleto < out[j].NombreCompleto })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubClienteRepo) RegistrarVisita(_ context.Context, _ *gorm.DB, id uuid.UUID, fecha time.Time) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c.VecesServicio++
	f := fecha
	c.FechaUltimoServicio = &f
	cp := *c
	return &cp, nil
}

func (r *stubClienteRepo) CountCreatedSince(_ context.Context, desde time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.clientes {
		if !c.CreatedAt.Before(desde) {
			n++
		}
	}
	return n, nil
}

func (r *stubClienteRepo) DB() *gorm.DB { return nil }

func (r *stubClienteRepo) seed(nombre, telefono string) *model.Cliente {
	c := &model.Cliente{NombreCompleto: nombre, Telefono: telefono}
	_ = r.Create(context.Background(), nil, c)
	return c
}

type stubOrdenRepo struct {
	mu       sync.Mutex
	ordenes  map[uuid.UUID]*model.OrdenServicio
	clientes *stubClienteRepo
	seq      int64
	stats    repository.EstadisticasOrdenes
}

func newStubOrdenRepo(clientes *stubClienteRepo) *stubOrdenRepo {
	return &stubOrdenRepo{ordenes: make(map[uuid.UUID]*model.OrdenServicio), clientes: clientes}
}

func (r *stubOrdenRepo) Create(_ context.Context, _ *gorm.DB, o *model.OrdenServicio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	cp := *o
	cp.Cliente = nil
	r.ordenes[o.ID] = &cp
	return nil
}

func (r *stubOrdenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenServicio, error) {
	r.mu.Lock()
	o, ok := r.ordenes[id]
	r.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	if r.clientes != nil {
		if c, err := r.clientes.FindByID(ctx, nil, o.ClienteID); err == nil {
			cp.Cliente = c
		}
	}
	return &cp, nil
}

func (r *stubOrdenRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.OrdenServicio, error) {
	return r.FindByID(ctx, id)
}

func (r *stubOrdenRepo) Update(_ context.Context, _ *gorm.DB, o *model.OrdenServicio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ordenes[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Cliente = nil
	r.ordenes[o.ID] = &cp
	return nil
}

func (r *stubOrdenRepo) List(_ context.Context, filter dto.OrdenFilter) ([]model.OrdenServicio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OrdenServicio
	for _, o := range r.ordenes {
		if filter.Estado != "" && filter.Estado != "all" && string(o.Estado) != filter.Estado {
			continue
		}
		if filter.TecnicoID != nil && (o.TecnicoAsignadoID == nil || *o.TecnicoAsignadoID != *filter.TecnicoID) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrdenRepo) ListActivas(ctx context.Context, tecnicoID *uuid.UUID, limit int) ([]model.OrdenServicio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OrdenServicio
	for _, o := range r.ordenes {
		if !o.Estado.Activo() {
			continue
		}
		if tecnicoID != nil && (o.TecnicoAsignadoID == nil || *o.TecnicoAsignadoID != *tecnicoID) {
			continue
		}
		cp := *o
		if c, err := r.clientes.FindByID(ctx, nil, o.ClienteID); err == nil {
			cp.Cliente = c
		}
		out = append(out, cp)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubOrdenRepo) Estadisticas(_ context.Context, _, _ time.Time) (*repository.EstadisticasOrdenes, error) {
	st := r.stats
	return &st, nil
}

func (r *stubOrdenRepo) NextNumero(_ context.Context, _ *gorm.DB) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return repository.FormatNumeroOrden(r.seq), nil
}

func (r *stubOrdenRepo) DB() *gorm.DB { return nil }

// seed stores an order directly, bypassing the service.
func (r *stubOrdenRepo) seed(o model.OrdenServicio) *model.OrdenServicio {
	if o.Estado == "" {
		o.Estado = model.EstadoRecibido
	}
	if o.NumeroOrden == "" {
		n, _ := r.NextNumero(context.Background(), nil)
		o.NumeroOrden = n
	}
	o.RecalcularSaldo()
	_ = r.Create(context.Background(), nil, &o)
	return &o
}

type stubUsuarioRepo struct {
	users map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) seed(email, rol string, activo bool) *model.Usuario {
	u := &model.Usuario{ID: uuid.New(), Email: email, NombreCompleto: "Usuario " + rol, Rol: rol, Activo: activo}
	r.users[u.ID] = u
	return u
}

type stubNotificacionRepo struct {
	guardadas []model.NotificacionCliente
	err       error
}

func (r *stubNotificacionRepo) Create(_ context.Context, n *model.NotificacionCliente) error {
	if r.err != nil {
		return r.err
	}
	n.ID = uuid.New()
	r.guardadas = append(r.guardadas, *n)
	return nil
}

func (r *stubNotificacionRepo) ListByOrden(_ context.Context, ordenID uuid.UUID) ([]model.NotificacionCliente, error) {
	var out []model.NotificacionCliente
	for _, n := range r.guardadas {
		if n.OrdenID == ordenID {
			out = append(out, n)
		}
	}
	return out, nil
}

type stubAlertaRepo struct {
	alertas []model.Alerta
}

func (r *stubAlertaRepo) List(_ context.Context, soloNoLeidas bool, limit int) ([]model.Alerta, error) {
	var out []model.Alerta
	for _, a := range r.alertas {
		if soloNoLeidas && a.Leida {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubAlertaRepo) CountNoLeidas(_ context.Context) (int64, error) {
	var n int64
	for _, a := range r.alertas {
		if !a.Leida {
			n++
		}
	}
	return n, nil
}

func (r *stubAlertaRepo) MarcarLeida(_ context.Context, id, usuarioID uuid.UUID, fecha time.Time) error {
	for i := range r.alertas {
		if r.alertas[i].ID == id {
			r.alertas[i].Leida = true
			r.alertas[i].FechaLeida = &fecha
			r.alertas[i].UsuarioResponsableID = &usuarioID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubRepuestoRepo struct {
	repuestos []model.Repuesto
}

func (r *stubRepuestoRepo) ListStockBajo(_ context.Context) ([]model.Repuesto, error) {
	var out []model.Repuesto
	for _, rp := range r.repuestos {
		if rp.Activo && rp.CantidadActual <= rp.CantidadMinima {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (r *stubRepuestoRepo) CountStockBajo(ctx context.Context) (int64, error) {
	rs, _ := r.ListStockBajo(ctx)
	return int64(len(rs)), nil
}

type memDenylist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
	err  error
}

func newMemDenylist() *memDenylist { return &memDenylist{jtis: make(map[string]time.Duration)} }

func (d *memDenylist) Revocar(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jtis[jti] = ttl
	return nil
}

func (d *memDenylist) Revocado(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.jtis[jti]
	return ok, nil
}

type stubCola struct {
	payloads []interface{}
	err      error
}

func (c *stubCola) EnqueueEmail(_ context.Context, payload interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

var errBackend = errors.New("connection reset by peer")

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:           testSecret,
		JWTExpirationHours:  8,
		JWTRefreshHours:     24,
		GarantiaDiasDefault: 30,
		WhatsAppPais:        "52",
		NegocioNombre:       "Taller Centro",
		NegocioTelefono:     "555 000 1111",
		NegocioUbicacion:    "Av. Juárez 100",
	}
}

func actorDe(rol string) Actor { return NuevoActor(uuid.New(), rol) }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
