// cmd/seeduser/main.go — Crea/actualiza el administrador inicial.
// Uso: go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"os"

	"taller/internal/config"
	"taller/internal/infra"
	"taller/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	email := envOr("SEED_ADMIN_EMAIL", "admin@taller.local")
	password := envOr("SEED_ADMIN_PASSWORD", "cambiar123")
	nombre := envOr("SEED_ADMIN_NOMBRE", "Administrador")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (email, nombre_completo, password_hash, rol, activo, created_at, updated_at)
		VALUES (?, ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre_completo = EXCLUDED.nombre_completo,
		    rol = EXCLUDED.rol,
		    activo = true,
		    updated_at = NOW()
	`, email, nombre, string(hash), model.RolAdmin)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert")
	}
	fmt.Printf("Usuario '%s' creado/actualizado con rol %s\n", email, model.RolAdmin)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
