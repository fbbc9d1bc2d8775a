package main

import (
	"github.com/Rakhulsr/venue-admin/app/cmd"
	"github.com/Rakhulsr/venue-admin/app/configs"
	"github.com/Rakhulsr/venue-admin/app/utils/logger"
)

func main() {
	env := configs.LoadEnv()

	log := logger.New(env.LoggerConfig())
	defer func() { _ = log.Sync() }()

	// with no arguments the root command serves
	cmd.RunCli(env, log)
}
