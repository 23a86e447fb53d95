// Package main is the entry point for the Outpost 31 authoritative server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/polarnight-games/outpost31/internal/engine"
	"github.com/polarnight-games/outpost31/internal/infra/storage"
	"github.com/polarnight-games/outpost31/internal/network"
	"github.com/polarnight-games/outpost31/internal/platform/config"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
	"github.com/polarnight-games/outpost31/internal/platform/metrics"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "listen address")
		dbPath       = flag.String("db", "station.db", "sqlite database path")
		scenarioPath = flag.String("scenario", "", "scenario yaml, empty for the built-in one")
		seed         = flag.Int64("seed", time.Now().UnixNano(), "simulation seed")
		gameID       = flag.String("game-id", "", "game identifier, random when empty")
		turnEvery    = flag.Duration("turn-every", 30*time.Second, "wall-clock interval between turns, 0 for manual advance only")
	)
	flag.Parse()

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	scn := config.Default()
	if *scenarioPath != "" {
		var err error
		scn, err = config.Load(*scenarioPath)
		if err != nil {
			appLogger.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
	}
	if *gameID == "" {
		*gameID = uuid.NewString()
	}

	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("failed to initialize sqlite", "error", err)
		os.Exit(1)
	}
	eventRepo := storage.NewSQLiteEventRepository(db)
	snapRepo := storage.NewSQLiteSnapshotRepository(db)
	codec, err := storage.NewSnapshotCodec()
	if err != nil {
		appLogger.Error("failed to initialize snapshot codec", "error", err)
		os.Exit(1)
	}
	persister := storage.NewBusPersister(eventRepo, *gameID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resume from the latest snapshot when one exists for this game.
	sim, err := bootSimulation(ctx, scn, *seed, *gameID, persister, snapRepo, codec, appLogger)
	if err != nil {
		appLogger.Error("failed to boot simulation", "error", err)
		os.Exit(1)
	}

	hub := network.NewHub(sim, appLogger)
	go hub.Run(ctx)

	// Automated snapshot backup routine.
	go func() {
		backup := time.NewTicker(30 * time.Second)
		defer backup.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backup.C:
				snap := hub.Snapshot()
				blob, err := codec.Encode(snap)
				if err != nil {
					appLogger.Error("snapshot encode failed", "error", err)
					continue
				}
				if err := snapRepo.Save(ctx, *gameID, snap.Turn, blob); err != nil {
					appLogger.Error("snapshot save failed", "error", err)
				}
			}
		}
	}()

	// Wall-clock turn driver, optional.
	if *turnEvery > 0 {
		go func() {
			ticker := time.NewTicker(*turnEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := hub.AdvanceTurn(); err != nil {
						appLogger.Info("turn driver stopped", "reason", err.Error())
						return
					}
				}
			}
		}()
	}

	reconstructor := storage.NewReconstructor(eventRepo)

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})
	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	http.HandleFunc("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hub.Snapshot())
	})

	http.HandleFunc("/api/recap", func(w http.ResponseWriter, r *http.Request) {
		agentID := r.URL.Query().Get("agent")
		sinceTurn, _ := strconv.Atoi(r.URL.Query().Get("since"))
		recap, err := reconstructor.GenerateRecap(r.Context(), *gameID, agentID, sinceTurn)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(recap)
	})

	go func() {
		appLogger.Info("server listening", "addr", *addr, "game_id", *gameID)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down")
}

// bootSimulation restores the latest snapshot for the game, falling back to
// a fresh simulation when none exists.
func bootSimulation(ctx context.Context, scn *config.Scenario, seed int64, gameID string,
	persister *storage.BusPersister, snapRepo *storage.SQLiteSnapshotRepository,
	codec *storage.SnapshotCodec, appLogger *logger.Logger) (*engine.Simulation, error) {

	stored, err := snapRepo.LoadLatest(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return engine.NewSimulation(scn, seed, persister, appLogger)
	}
	snap, err := codec.Decode(stored.Blob)
	if err != nil {
		return nil, err
	}
	appLogger.Info("restored simulation from snapshot", "turn", snap.Turn)
	return engine.RestoreSimulation(scn, snap, persister, appLogger)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the dev frontend
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade websocket connection", "error", err)
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
