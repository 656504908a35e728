package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"expense-approval/internal/config"
	"expense-approval/internal/database"
	"expense-approval/internal/ledger"
	"expense-approval/internal/logging"
	"expense-approval/internal/notify"
	"expense-approval/internal/repository"
	"expense-approval/internal/router"
	"expense-approval/internal/workflow"

	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		log.Fatalf("create log dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Ledger.Path)); err != nil {
		log.Fatalf("create ledger dir: %v", err)
	}

	logger := logging.Init(cfg.Log)
	defer func() { _ = logger.Sync() }()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// wire the workflow engine
	repo := repository.NewGorm(db)
	recorder := ledger.NewXLSX(cfg.Ledger.Path, cfg.Ledger.Sheet)

	var sender notify.Sender
	if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(cfg.SMTP)
	} else {
		logger.Warn("no smtp host configured, notifications go to the log")
		sender = &notify.LogSender{Log: logger}
	}
	dispatcher := notify.NewDispatcher(sender, notify.NewGormAttemptLog(db), logger)

	engine := workflow.New(repo, recorder, dispatcher, cfg.ExternalTimeout(), logger)

	// setup router
	r := router.SetupRouter(cfg, db, engine, repo, recorder)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
