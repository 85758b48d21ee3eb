package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/config"
	"github.com/smallbiznis/pestdesk/internal/seed"
	"github.com/smallbiznis/pestdesk/internal/servicerecord/repository"
	"github.com/smallbiznis/pestdesk/pkg/db"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	var out, driver string
	var force bool
	flag.StringVar(&out, "out", cfg.DBTemplatePath, "path of the template database to write")
	flag.StringVar(&driver, "driver", cfg.DBDriver, "sqlite driver: sqlite3 (cgo) or sqlite (pure go)")
	flag.BoolVar(&force, "force", false, "replace an existing template")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := build(out, driver, force, log); err != nil {
		log.Error("demo template build failed", zap.String("path", out), zap.Error(err))
		os.Exit(1)
	}
}

func build(out, driver string, force bool, log *zap.Logger) error {
	if _, err := os.Stat(out); err == nil {
		if !force {
			return fmt.Errorf("%s already exists, pass -force to replace it", out)
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(out + suffix); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	conn, err := db.Open(db.Config{Driver: driver, Path: out, Name: "demo-template"}, log)
	if err != nil {
		return err
	}
	handle := db.NewHandle(out, conn)
	defer handle.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := repository.Provide()
	if err := repo.Initialize(ctx, conn); err != nil {
		return err
	}
	inserted, err := seed.EnsureDemoData(ctx, conn, repo, clock.NewSystem().Now())
	if err != nil {
		return err
	}

	if err := handle.Close(); err != nil {
		return err
	}
	size := "unknown"
	if info, err := os.Stat(out); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	log.Info("demo template written",
		zap.String("path", out),
		zap.String("records", humanize.Comma(int64(inserted))),
		zap.String("size", size),
	)
	return nil
}
