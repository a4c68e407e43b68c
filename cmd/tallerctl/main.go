// Command tallerctl renders order documents and customer messages offline and
// inspects the email dead-letter queue.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("tallerctl")
		os.Exit(1)
	}
}
