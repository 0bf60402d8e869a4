package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/hskstudio/internal/config"
	"github.com/example/hskstudio/internal/curriculum"
	"github.com/example/hskstudio/internal/session"
	"github.com/example/hskstudio/internal/storage"
	cursync "github.com/example/hskstudio/internal/sync"
	"github.com/example/hskstudio/internal/tracker"
	"github.com/example/hskstudio/internal/web"
)

func main() {
	cfg := config.MustLoad()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	slog.Info("Database opened", "path", cfg.DBPath)

	set := loadCurriculum(cfg)
	slog.Info("Curriculum loaded",
		"radicals", len(set.Radicals),
		"wordLevels", len(set.WordsByLevel),
		"grammar", len(set.Grammar))

	prog, err := db.LoadProgress()
	if err != nil {
		log.Fatalf("Failed to load progress: %v", err)
	}

	trk := tracker.New(prog, db, set)
	timer := session.NewTimer(trk, cfg.SessionMinutes)

	roller, err := session.NewDayRoller(func() {
		trk.Today()
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily rollover: %v", err)
	}
	roller.Start()
	defer roller.Stop()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: web.NewServer(trk, set, timer, cfg.CurriculumRepo, cfg.DataDir),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// loadCurriculum syncs from the configured repository when one is set,
// falling back to whatever is already on disk.
func loadCurriculum(cfg *config.Config) *curriculum.Set {
	if cfg.CurriculumRepo != "" {
		set, err := cursync.RunSync(cfg.CurriculumRepo, cfg.DataDir)
		if err == nil {
			return set
		}
		slog.Warn("Curriculum sync failed, using local data", "error", err)
	}

	set, err := curriculum.LoadDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to load curriculum from %s: %v", cfg.DataDir, err)
	}
	return set
}
