//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"taller/internal/dto"
	"taller/internal/infra"
	"taller/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("taller_test"),
		tcPostgres.WithUsername("taller"),
		tcPostgres.WithPassword("taller"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDatabase(dsn, true)
	require.NoError(t, err)
	return db
}

func TestClienteRepo_RegistrarVisitaYBusqueda(t *testing.T) {
	db := setupDB(t)
	repo := NewClienteRepository(db)
	ctx := context.Background()

	c := &model.Cliente{NombreCompleto: "Ana Ruiz", Telefono: "55-1234-5678"}
	require.NoError(t, repo.Create(ctx, nil, c))
	require.NoError(t, repo.Create(ctx, nil, &model.Cliente{NombreCompleto: "Beto 100%", Telefono: "3300001234"}))

	fecha := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 2; i++ {
		got, err := repo.RegistrarVisita(ctx, nil, c.ID, fecha)
		require.NoError(t, err)
		assert.Equal(t, i, got.VecesServicio)
		require.NotNil(t, got.FechaUltimoServicio)
		assert.True(t, fecha.Equal(*got.FechaUltimoServicio))
	}

	res, err := repo.SearchByTelefono(ctx, "1234", 5)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Ana Ruiz", res[0].NombreCompleto)

	res, err = repo.SearchByTelefono(ctx, "%", 5)
	require.NoError(t, err)
	assert.Empty(t, res, "LIKE wildcards are matched literally")
}

func TestOrdenRepo_NumeracionYListado(t *testing.T) {
	db := setupDB(t)
	clientes := NewClienteRepository(db)
	ordenes := NewOrdenRepository(db)
	ctx := context.Background()

	c := &model.Cliente{NombreCompleto: "Ana Ruiz", Telefono: "5512345678"}
	require.NoError(t, clientes.Create(ctx, nil, c))

	for i, marca := range []string{"Samsung", "Apple", "Motorola"} {
		numero, err := ordenes.NextNumero(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, FormatNumeroOrden(int64(i+1)), numero)

		o := &model.OrdenServicio{
			NumeroOrden: numero, ClienteID: c.ID, Marca: marca, Modelo: "X",
			ProblemaReportado: "falla", Estado: model.EstadoRecibido, Prioridad: model.PrioridadNormal,
			FechaRecepcion: time.Now(), CostoTotal: decimal.NewFromInt(800), Anticipo: decimal.NewFromInt(300),
			GarantiaDias: 30, Cliente: c,
		}
		o.RecalcularSaldo()
		require.NoError(t, ordenes.Create(ctx, nil, o))
	}

	todas, err := ordenes.List(ctx, dto.OrdenFilter{Estado: "all"})
	require.NoError(t, err)
	require.Len(t, todas, 3)
	assert.Equal(t, "Motorola", todas[0].Marca, "newest first")
	require.NotNil(t, todas[0].Cliente)

	buscadas, err := ordenes.List(ctx, dto.OrdenFilter{Busqueda: "ana"})
	require.NoError(t, err)
	assert.Len(t, buscadas, 3)

	st, err := ordenes.Estadisticas(ctx, time.Now().Add(-time.Hour), time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Activas)
	assert.True(t, st.PorCobrar.Equal(decimal.NewFromInt(1500)))
}

func TestOrdenRepo_BloqueoEnTransaccion(t *testing.T) {
	db := setupDB(t)
	clientes := NewClienteRepository(db)
	ordenes := NewOrdenRepository(db)
	ctx := context.Background()

	c := &model.Cliente{NombreCompleto: "Ana Ruiz", Telefono: "5512345678"}
	require.NoError(t, clientes.Create(ctx, nil, c))
	o := &model.OrdenServicio{
		NumeroOrden: "OS-900001", ClienteID: c.ID, Marca: "Samsung", Modelo: "A52",
		ProblemaReportado: "falla", Estado: model.EstadoRecibido, Prioridad: model.PrioridadNormal,
		FechaRecepcion: time.Now(), GarantiaDias: 30,
	}
	require.NoError(t, ordenes.Create(ctx, nil, o))

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := ordenes.FindByIDForUpdate(ctx, tx, o.ID)
		if err != nil {
			return err
		}
		locked.AplicarEstado(model.EstadoEnDiagnostico, time.Now())
		return ordenes.Update(ctx, tx, locked)
	})
	require.NoError(t, err)

	got, err := ordenes.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEnDiagnostico, got.Estado)
	assert.NotNil(t, got.FechaDiagnostico)
}
