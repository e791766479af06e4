package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/boardsync-dev/boardsync/internal/simserver"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var logLevel string
	var seed bool
	flag.StringVar(&logLevel, "log_level", "info", "log level")
	flag.BoolVar(&seed, "seed", true, "create a demo board on startup")
	flag.Parse()
	logger.Initialize(logLevel, false)

	srv := simserver.New()
	if seed {
		boardId := srv.SeedDemo()
		logger.Log.Info("seeded demo board", "board_id", boardId)
	}

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	logger.Log.Info("simulation server started", "port", httpPort)
	log.Fatal(http.ListenAndServe(":"+httpPort, srv.Handler()))
}
