package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/kv/file"
	"github.com/trezcool/shule/storage/kv/pg"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up the store: Postgres when a DB URL is configured, files otherwise
	var store core.Store
	if core.Conf.DatabaseURL != "" {
		pgStore, err := pgkv.Open(core.Conf.DatabaseURL)
		if err != nil {
			logger.Fatal("opening DB store", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		fileStore, err := filekv.Open(core.Conf.DataDir)
		if err != nil {
			logger.Fatal("opening file store", err)
		}
		store = fileStore
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	schoolSvc := school.NewService(core.Conf, school.NewRepository(store), logger, mailSvc)

	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:      core.Conf.Server.Addr,
			SchoolSvc: schoolSvc,
			Logger:    logger,
		},
	)

	go app.Start()

	// wait for a stop signal, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case <-app.ShutdownSignal():
		logger.Warn("internal shutdown requested")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Fatal("stopping server", err)
	}
}
