package main

import (
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/kv/file"
	"github.com/trezcool/shule/storage/kv/pg"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up the store: Postgres when a DB URL is configured, files otherwise
	var store core.Store
	if core.Conf.DatabaseURL != "" {
		pgStore, err := pgkv.Open(core.Conf.DatabaseURL)
		errAndDie(err)
		defer pgStore.Close()
		store = pgStore
	} else {
		fileStore, err := filekv.Open(core.Conf.DataDir)
		errAndDie(err)
		store = fileStore
	}

	svc := school.NewService(
		core.Conf,
		school.NewRepository(store),
		logsvc.NewStdLogger(logger),
		emailsvc.NewConsoleService(),
	)

	// start CLI
	cli := commandLine{svc: svc}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
