package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"kaamos/db/migrations"
	httpadapter "kaamos/internal/adapter/http"
	metricsinmem "kaamos/internal/adapter/metrics/inmemory"
	gormrepo "kaamos/internal/adapter/repo/gorm"
	"kaamos/internal/adapter/repo/memory"
	sqliterepo "kaamos/internal/adapter/repo/sqlite"
	"kaamos/internal/adapter/sound"
	"kaamos/internal/app/auth"
	"kaamos/internal/app/game"
	"kaamos/internal/app/journal"
	"kaamos/internal/app/ports"
	"kaamos/internal/app/session"
	"kaamos/internal/app/shop"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"

	"github.com/cloudwego/hertz/pkg/app/server"
	"gorm.io/gorm"
)

type repos struct {
	saves   ports.SaveRepository
	creds   ports.SlotCredentialRepository
	tx      ports.TxManager
	backend string
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	catalog := mustLoadCatalog(resolveContentDir())
	r := mustBuildRepos()
	kpiRecorder := metricsinmem.NewRecorder()
	engine := game.New(catalog, buildSource(), sound.NewLogPlayer(logger), logger)

	h := httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{Credentials: r.creds, TxManager: r.tx, Now: time.Now},
		AuthUC:     auth.VerifyUseCase{Credentials: r.creds},
		RotateUC:   auth.RotateUseCase{Credentials: r.creds, TxManager: r.tx, Now: time.Now},
		SessionUC: session.UseCase{
			Engine:    engine,
			Saves:     r.saves,
			TxManager: r.tx,
			Metrics:   kpiRecorder,
			Logger:    logger,
			Now:       time.Now,
		},
		JournalUC:  journal.UseCase{Saves: r.saves, TxManager: r.tx},
		ShopUC:     shop.UseCase{Catalog: catalog},
		KPI:        kpiRecorder,
		CORSOrigin: strings.TrimSpace(os.Getenv("KAAMOS_CORS_ORIGIN")),
	}

	addr := envOr("KAAMOS_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("kaamos server listening on %s (saves: %s, events: %d, items: %d)", addr, r.backend, len(catalog.Events()), len(catalog.Items()))
	s.Spin()
}

func mustLoadCatalog(dir string) *content.Catalog {
	var (
		catalog *content.Catalog
		err     error
	)
	if dir == "" {
		catalog, err = content.LoadDefault()
	} else {
		catalog, err = content.LoadDir(dir)
	}
	if err != nil {
		log.Fatalf("load content: %v", err)
	}
	if problems := content.Validate(catalog); len(problems) > 0 {
		for _, p := range problems {
			log.Printf("content: %v", p)
		}
		log.Fatalf("content has %d validation errors (run validate-content for details)", len(problems))
	}
	return catalog
}

func mustBuildRepos() repos {
	if dsn := strings.TrimSpace(os.Getenv("KAAMOS_DB_DSN")); dsn != "" {
		db, err := gormrepo.OpenPostgres(dsn)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := applyMigrations(db); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		return repos{
			saves:   gormrepo.NewSaveRepo(db),
			creds:   gormrepo.NewSlotCredentialRepo(db),
			tx:      gormrepo.NewTxManager(db),
			backend: "postgres",
		}
	}
	if path := strings.TrimSpace(os.Getenv("KAAMOS_SQLITE_PATH")); path != "" {
		db, err := sqliterepo.Open(path)
		if err != nil {
			log.Fatalf("open sqlite: %v", err)
		}
		return repos{
			saves:   sqliterepo.NewSaveRepo(db),
			creds:   sqliterepo.NewSlotCredentialRepo(db),
			tx:      sqliterepo.NewTxManager(db),
			backend: "sqlite " + path,
		}
	}
	store := memory.NewStore()
	return repos{
		saves:   memory.NewSaveRepo(store),
		creds:   memory.NewSlotCredentialRepo(store),
		tx:      memory.NewTxManager(store),
		backend: "memory",
	}
}

func applyMigrations(db *gorm.DB) error {
	if dir := resolveMigrationsDir(); dir != "" {
		return gormrepo.ApplyMigrations(context.Background(), db, dir)
	}
	return gormrepo.ApplyMigrationsFS(context.Background(), db, migrations.FS)
}

func buildSource() rng.Source {
	if seed, ok := int64Env("KAAMOS_SEED"); ok {
		return rng.Locked(rng.New(seed))
	}
	return rng.Locked(rng.NewRandom())
}

func resolveContentDir() string {
	return strings.TrimSpace(os.Getenv("KAAMOS_CONTENT_DIR"))
}

// resolveMigrationsDir returns an on-disk override; empty means the
// embedded migrations.
func resolveMigrationsDir() string {
	return strings.TrimSpace(os.Getenv("KAAMOS_MIGRATIONS_DIR"))
}

func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(envOr("KAAMOS_LOG_LEVEL", "INFO"))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func int64Env(key string) (int64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
