package infra

import (
	"fmt"

	"taller/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx. When autoMigrate is
// set it creates / updates all tables and then applies the idempotent SQL
// patches GORM cannot express (sequences, partial indexes).
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Models lists every table owned by the backend, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Usuario{},
		&model.Cliente{},
		&model.OrdenServicio{},
		&model.Repuesto{},
		&model.Alerta{},
		&model.NotificacionCliente{},
	}
}

// RunMigrations creates the schema. Used at startup with AUTO_MIGRATE=true
// and by integration tests.
func RunMigrations(db *gorm.DB) error {
	// The order number default reads the sequence, so it must exist first.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS ordenes_numero_seq START 1`).Error; err != nil {
		return fmt.Errorf("sequence: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own. Each statement uses IF NOT EXISTS semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// dashboard: active orders and pending collection
		`CREATE INDEX IF NOT EXISTS idx_ordenes_activas
		    ON ordenes_servicio (created_at DESC)
		    WHERE estado NOT IN ('entregado', 'cancelado')`,
		`CREATE INDEX IF NOT EXISTS idx_ordenes_saldo_pendiente
		    ON ordenes_servicio (saldo_pendiente)
		    WHERE saldo_pendiente > 0`,
		// technician scope
		`CREATE INDEX IF NOT EXISTS idx_ordenes_tecnico
		    ON ordenes_servicio (tecnico_asignado_id)
		    WHERE tecnico_asignado_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_alertas_no_leidas
		    ON alertas_sistema (created_at DESC)
		    WHERE leida = false`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
