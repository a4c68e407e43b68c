package service

import (
	"context"
	"testing"
	"time"

	"taller/internal/dto"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardFixture struct {
	svc     DashboardService
	ordenes *stubOrdenRepo
	alertas *stubAlertaRepo
	tecnico Actor
}

func newDashboardFixture() *dashboardFixture {
	clientes := newStubClienteRepo()
	ordenes := newStubOrdenRepo(clientes)
	c := clientes.seed("Ana Ruiz", "5512345678")
	tec := actorDe(model.RolTecnico)

	ordenes.seed(model.OrdenServicio{ClienteID: c.ID, TecnicoAsignadoID: &tec.UsuarioID, Estado: model.EstadoEnReparacion})
	ordenes.seed(model.OrdenServicio{ClienteID: c.ID, Estado: model.EstadoRecibido})
	ordenes.seed(model.OrdenServicio{ClienteID: c.ID, Estado: model.EstadoEntregado})
	ordenes.stats = repository.EstadisticasOrdenes{Activas: 2, Hoy: 1, EntregadasMes: 1, PorCobrar: dec(500), IngresosMes: dec(300)}

	alertas := &stubAlertaRepo{}
	for i := 0; i < 7; i++ {
		alertas.alertas = append(alertas.alertas, model.Alerta{
			ID: uuid.New(), Tipo: "orden_atrasada", Severidad: model.SeveridadAlta, Titulo: "Orden atrasada",
		})
	}
	alertas.alertas[0].Leida = true

	categoria := "Display"
	repuestos := &stubRepuestoRepo{repuestos: []model.Repuesto{
		{ID: uuid.New(), Codigo: "PAN-01", Nombre: "Pantalla", CantidadActual: 0, CantidadMinima: 2, Activo: true, Categoria: &categoria},
		{ID: uuid.New(), Codigo: "BAT-01", Nombre: "Batería", CantidadActual: 10, CantidadMinima: 2, Activo: true},
		{ID: uuid.New(), Codigo: "OLD-01", Nombre: "Descontinuado", CantidadActual: 0, CantidadMinima: 1, Activo: false},
	}}

	svc := NewDashboardService(ordenes, clientes, alertas, repuestos, nil, time.Minute)
	return &dashboardFixture{svc: svc, ordenes: ordenes, alertas: alertas, tecnico: tec}
}

func TestDashboard_Admin(t *testing.T) {
	f := newDashboardFixture()

	resp, err := f.svc.Obtener(context.Background(), actorDe(model.RolAdmin))
	require.NoError(t, err)

	st := resp.Estadisticas
	assert.Equal(t, int64(2), st.OrdenesActivas)
	assert.True(t, st.PorCobrar.Equal(dec(500)))
	assert.True(t, st.IngresosMes.Equal(dec(300)))
	assert.Equal(t, int64(6), st.AlertasNoLeidas)
	assert.Equal(t, int64(1), st.ClientesNuevosMes)
	assert.Equal(t, int64(1), st.RepuestosStockBajo)

	assert.Len(t, resp.OrdenesActivas, 2)
	assert.Len(t, resp.Alertas, 5)
	assert.Equal(t, "text-orange-500", resp.Alertas[0].Color)
}

func TestDashboard_TecnicoVeSoloSusOrdenes(t *testing.T) {
	f := newDashboardFixture()

	resp, err := f.svc.Obtener(context.Background(), f.tecnico)
	require.NoError(t, err)
	require.Len(t, resp.OrdenesActivas, 1)
	assert.Equal(t, "en_reparacion", resp.OrdenesActivas[0].Estado)
	assert.Equal(t, "Ana Ruiz", resp.OrdenesActivas[0].ClienteNombre)
}

func TestDashboard_SinCapacidad(t *testing.T) {
	f := newDashboardFixture()
	_, err := f.svc.Obtener(context.Background(), NuevoActor(uuid.New(), "invitado"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAlertas_ListarYMarcar(t *testing.T) {
	f := newDashboardFixture()
	admin := actorDe(model.RolAdmin)

	todas, err := f.svc.ListarAlertas(context.Background(), admin, dto.AlertaFilter{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, todas, 7)

	noLeidas, err := f.svc.ListarAlertas(context.Background(), admin, dto.AlertaFilter{SoloNoLeidas: true})
	require.NoError(t, err)
	assert.Len(t, noLeidas, 6)

	id := f.alertas.alertas[3].ID
	require.NoError(t, f.svc.MarcarAlertaLeida(context.Background(), admin, id))
	assert.True(t, f.alertas.alertas[3].Leida)
	require.NotNil(t, f.alertas.alertas[3].UsuarioResponsableID)
	assert.Equal(t, admin.UsuarioID, *f.alertas.alertas[3].UsuarioResponsableID)

	err = f.svc.MarcarAlertaLeida(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStockBajo(t *testing.T) {
	f := newDashboardFixture()
	resp, err := f.svc.StockBajo(context.Background(), actorDe(model.RolRecepcionista))
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "PAN-01", resp[0].Codigo)
}
