package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boardsync-dev/boardsync/internal/apiclient"
	"github.com/boardsync-dev/boardsync/internal/client"
	"github.com/boardsync-dev/boardsync/internal/realtime"
	"github.com/boardsync-dev/boardsync/internal/store"
	"github.com/boardsync-dev/boardsync/shared/api"
	"github.com/boardsync-dev/boardsync/shared/config"
	"github.com/boardsync-dev/boardsync/shared/domain"
	"github.com/boardsync-dev/boardsync/shared/logger"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var configFolder string
	var boardId int64
	var metricsAddr string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Int64Var(&boardId, "board", 0, "id of the board to follow")
	flag.StringVar(&metricsAddr, "metrics_addr", "", "optional address for the prometheus endpoint")
	flag.Parse()
	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	if boardId == 0 {
		log.Fatal("-board is required")
	}

	rest, err := apiclient.New(cfg.Public.Api.BaseURL, cfg.Public.RequestTimeout)
	if err != nil {
		log.Fatal(err)
	}

	boardStore := store.NewBoardStore()
	cardStore := store.NewCardStore()
	archiveStore := store.NewArchiveStore()

	c := client.New(rest, boardStore, cardStore, archiveStore)
	c.SetActivityPageSize(cfg.Public.ActivityPageSize)

	if err := c.Login(cfg.Username(), cfg.Password()); err != nil {
		log.Fatal(err)
	}
	if err := c.LoadBoard(boardId); err != nil {
		log.Fatal(err)
	}

	router := realtime.NewRouter(boardStore, cardStore, archiveStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	router.OnBoardDeleted = func(id domain.BoardId) {
		logger.Log.Warn("board deleted remotely, stopping", "board_id", id)
		stop()
	}

	streamURL := fmt.Sprintf("%s?board_id=%d", cfg.Public.Socket.URL, boardId)
	stream := realtime.NewStream(streamURL, rest.SessionCookies(), cfg.Public.Socket.MaxReconnectWait)
	stream.OnConnect = c.Resync
	stream.OnEvent = func(ev api.Event) {
		if err := router.Handle(ev); err != nil {
			logger.Log.Error("event handling failed", "event", ev.Name, "err", err)
			if err := c.Resync(); err != nil {
				logger.Log.Error("resync failed", "err", err)
			}
			return
		}
		if ev.Name == api.EvActivityNew {
			var p api.ActivityPayload
			if err := json.Unmarshal(ev.Data, &p); err != nil {
				return
			}
			html, mentions := c.RenderActivity(p.Entity)
			if html != "" {
				logger.Log.Info("comment", "card_id", p.CardId, "html", html, "mentions", mentions)
			}
		}
	}

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Fatal(http.ListenAndServe(metricsAddr, mux))
		}()
	}

	logger.Log.Info("following board", "board_id", boardId, "url", streamURL)
	if err := stream.Run(ctx); err != nil {
		log.Fatal(err)
	}

	if err := c.Logout(); err != nil {
		logger.Log.Warn("logout failed", "err", err)
	}
}
