//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"taller/internal/config"
	"taller/internal/infra"
	"taller/internal/router"
	"taller/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	rdb    *redis.Client
}

const adminPassword = "taller-e2e-2026"

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("taller_test"),
		tcPostgres.WithUsername("taller"),
		tcPostgres.WithPassword("taller"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		WorkerPoolSize:        1,
		PDFStoragePath:        t.TempDir(),
		DashboardCacheSeconds: 0,
		NegocioNombre:         "Taller E2E",
		WhatsAppPais:          "52",
		GarantiaDiasDefault:   30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, true)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (email, nombre_completo, password_hash, rol, activo, created_at, updated_at)
		VALUES ('admin@e2e.test', 'Admin E2E', ?, 'admin', true, NOW(), NOW())`, string(hash)).Error)

	r := router.New(cfg, db, rdb, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": adminPassword}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, rdb: rdb}
}

type ordenCreada struct {
	ID             string  `json:"id"`
	NumeroOrden    string  `json:"numero_orden"`
	Estado         string  `json:"estado"`
	SaldoPendiente float64 `json:"saldo_pendiente,string"`
	Cliente        struct {
		ID            string `json:"id"`
		VecesServicio int    `json:"veces_servicio"`
	} `json:"cliente"`
}

func crearOrden(t *testing.T, env *testEnv, body map[string]any) ordenCreada {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/ordenes", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var o ordenCreada
	decodeJSON(t, resp, &o)
	return o
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloDeOrden(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Intake with a new client
	o := crearOrden(t, env, map[string]any{
		"nuevo_cliente":      map[string]any{"nombre_completo": "Ana Ruiz", "telefono": "5512345678", "email": "ana@example.com"},
		"marca":              "Samsung",
		"modelo":             "Galaxy S21",
		"problema_reportado": "Pantalla rota",
		"checklist":          map[string]bool{"pantalla_rota": true, "tiene_bateria": true},
		"costo_total":        800,
		"anticipo":           300,
	})
	assert.Equal(t, "OS-000001", o.NumeroOrden)
	assert.Equal(t, "recibido", o.Estado)
	assert.Equal(t, 500.0, o.SaldoPendiente)
	assert.Equal(t, 1, o.Cliente.VecesServicio)

	// 2. Second visit by the same client
	o2 := crearOrden(t, env, map[string]any{
		"cliente_id":         o.Cliente.ID,
		"marca":              "Apple",
		"modelo":             "iPhone 12",
		"problema_reportado": "No carga",
	})
	assert.Equal(t, "OS-000002", o2.NumeroOrden)
	assert.Equal(t, 2, o2.Cliente.VecesServicio)

	// 3. Phone search
	resp := do(t, env.server, "GET", "/v1/clientes?telefono=1234", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var clientes []map[string]any
	decodeJSON(t, resp, &clientes)
	require.Len(t, clientes, 1)
	assert.Equal(t, "Ana Ruiz", clientes[0]["nombre_completo"])

	// 4. Illegal transition is rejected, legal one applied
	resp = do(t, env.server, "PATCH", "/v1/ordenes/"+o.ID+"/estado", jsonBody(t, map[string]string{"estado": "entregado"}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, env.server, "PATCH", "/v1/ordenes/"+o.ID+"/estado", jsonBody(t, map[string]string{"estado": "en_diagnostico"}), env.token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// 5. Documents
	resp = do(t, env.server, "GET", "/v1/ordenes/"+o.ID+"/pdf", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	// 6. Email is queued, not sent inline
	resp = do(t, env.server, "POST", "/v1/ordenes/"+o.ID+"/pdf/email", nil, env.token)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()
	n, err := env.rdb.LLen(context.Background(), worker.QueueEmail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 7. WhatsApp composer
	resp = do(t, env.server, "POST", "/v1/ordenes/"+o.ID+"/whatsapp", jsonBody(t, map[string]string{"plantilla": "recepcion"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var wa struct {
		Link string `json:"link"`
	}
	decodeJSON(t, resp, &wa)
	assert.Contains(t, wa.Link, "https://wa.me/525512345678?text=")

	// 8. Dashboard
	resp = do(t, env.server, "GET", "/v1/dashboard", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash struct {
		Estadisticas struct {
			OrdenesActivas int64 `json:"ordenes_activas"`
			OrdenesHoy     int64 `json:"ordenes_hoy"`
		} `json:"estadisticas"`
	}
	decodeJSON(t, resp, &dash)
	assert.Equal(t, int64(2), dash.Estadisticas.OrdenesActivas)
	assert.Equal(t, int64(2), dash.Estadisticas.OrdenesHoy)
}

func TestE2E_NumerosUnicosConcurrentes(t *testing.T) {
	env := setupTestEnv(t)

	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numeros = map[string]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, _ := json.Marshal(map[string]any{
				"nuevo_cliente":      map[string]any{"nombre_completo": "Cliente", "telefono": "5500000000"},
				"marca":              "Moto",
				"modelo":             "G8",
				"problema_reportado": "No enciende",
			})
			req, _ := http.NewRequest("POST", env.server.URL+"/v1/ordenes", bytes.NewReader(b))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := env.server.Client().Do(req)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			var o ordenCreada
			if assert.Equal(t, http.StatusCreated, resp.StatusCode) && assert.NoError(t, json.NewDecoder(resp.Body).Decode(&o)) {
				mu.Lock()
				numeros[o.NumeroOrden] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, numeros, n)
}

func TestE2E_LogoutRevocaToken(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/auth/logout", nil, env.token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/auth/sesion", nil, env.token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
