package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tunik/tunik-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
