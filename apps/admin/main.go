package main

import (
	"log"
	"os"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/storage/jsondb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up the record store
	db, err := jsondb.Open(core.Conf.DataDir)
	if err != nil {
		logger.Fatal(err)
	}

	// start CLI
	cli := commandLine{
		usrRepo: jsondb.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
