package service

import (
	"bytes"
	"context"
	"os"
	"testing"

	"taller/internal/model"
	"taller/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentoFixture struct {
	svc   DocumentoService
	cola  *stubCola
	orden *model.OrdenServicio
	dir   string
}

func newDocumentoFixture(t *testing.T, email *string) *documentoFixture {
	t.Helper()
	clientes := newStubClienteRepo()
	ordenes := newStubOrdenRepo(clientes)
	c := clientes.seed("Ana Ruiz", "5512345678")
	clientes.clientes[c.ID].Email = email

	o := ordenes.seed(model.OrdenServicio{
		ClienteID:         c.ID,
		Marca:             "Samsung",
		Modelo:            "Galaxy S21",
		ProblemaReportado: "Pantalla rota",
		PantallaRota:      true,
		CostoTotal:        dec(800),
		Anticipo:          dec(300),
		GarantiaDias:      30,
	})

	cfg := newTestCfg()
	cfg.PDFStoragePath = t.TempDir()
	cola := &stubCola{}
	return &documentoFixture{
		svc:   NewDocumentoService(ordenes, cola, cfg),
		cola:  cola,
		orden: o,
		dir:   cfg.PDFStoragePath,
	}
}

func TestGenerarDocumentos(t *testing.T) {
	f := newDocumentoFixture(t, nil)
	admin := actorDe(model.RolAdmin)

	doc, err := f.svc.Generar(context.Background(), admin, f.orden.ID, DocumentoOrden)
	require.NoError(t, err)
	assert.Equal(t, "orden-"+f.orden.NumeroOrden+".pdf", doc.Nombre)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF-")))
	assert.Empty(t, doc.Advertencias)

	contrato, err := f.svc.Generar(context.Background(), admin, f.orden.ID, DocumentoContrato)
	require.NoError(t, err)
	assert.Equal(t, "contrato-"+f.orden.NumeroOrden+".pdf", contrato.Nombre)

	_, err = f.svc.Generar(context.Background(), admin, f.orden.ID, TipoDocumento("factura"))
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestGenerarDocumento_FirmaCorruptaEsAdvertencia(t *testing.T) {
	f := newDocumentoFixture(t, nil)
	corrupta := "data:image/png;base64,AAAA"
	stored := f.orden
	stored.FirmaRecepcion = &corrupta
	svc := f.svc.(*documentoService)
	require.NoError(t, svc.ordenes.Update(context.Background(), nil, stored))

	doc, err := f.svc.Generar(context.Background(), actorDe(model.RolAdmin), f.orden.ID, DocumentoOrden)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Advertencias)
	assert.True(t, bytes.HasPrefix(doc.PDF, []byte("%PDF-")))
}

func TestEnviarPorEmail_EncolaTrabajo(t *testing.T) {
	email := "ana@example.com"
	f := newDocumentoFixture(t, &email)

	resp, err := f.svc.EnviarPorEmail(context.Background(), actorDe(model.RolRecepcionista), f.orden.ID, nil)
	require.NoError(t, err)
	assert.True(t, resp.Encolado)
	assert.Equal(t, email, resp.Destinatario)

	require.Len(t, f.cola.payloads, 1)
	p, ok := f.cola.payloads[0].(worker.EmailJobPayload)
	require.True(t, ok)
	assert.Equal(t, email, p.ToEmail)
	assert.Contains(t, p.Subject, f.orden.NumeroOrden)
	assert.Contains(t, p.Body, "Ana Ruiz")

	data, err := os.ReadFile(p.PDFPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestEnviarPorEmail_SinCorreo(t *testing.T) {
	f := newDocumentoFixture(t, nil)

	_, err := f.svc.EnviarPorEmail(context.Background(), actorDe(model.RolAdmin), f.orden.ID, nil)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "email")
	assert.Empty(t, f.cola.payloads)

	override := "otro@example.com"
	resp, err := f.svc.EnviarPorEmail(context.Background(), actorDe(model.RolAdmin), f.orden.ID, &override)
	require.NoError(t, err)
	assert.Equal(t, override, resp.Destinatario)
}

func TestEnviarPorEmail_ColaCaida(t *testing.T) {
	email := "ana@example.com"
	f := newDocumentoFixture(t, &email)
	f.cola.err = errBackend

	_, err := f.svc.EnviarPorEmail(context.Background(), actorDe(model.RolAdmin), f.orden.ID, nil)
	var beErr *BackendError
	require.ErrorAs(t, err, &beErr)
	assert.Equal(t, errBackend.Error(), err.Error())
}
