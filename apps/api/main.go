package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trezcool/hudhuria/apps/api/echo"
	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/absence"
	"github.com/trezcool/hudhuria/core/class"
	"github.com/trezcool/hudhuria/core/dashboard"
	"github.com/trezcool/hudhuria/core/points"
	"github.com/trezcool/hudhuria/core/program"
	"github.com/trezcool/hudhuria/core/rollcall"
	"github.com/trezcool/hudhuria/core/user"
	"github.com/trezcool/hudhuria/services/email"
	"github.com/trezcool/hudhuria/services/logger"
	"github.com/trezcool/hudhuria/storage/jsondb"
)

const shutdownTimeout = 20 * time.Second

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug || core.Conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up the record store
	db, err := jsondb.Open(core.Conf.DataDir)
	if err != nil {
		std.Fatal(err)
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// set up repos & services
	usrRepo := jsondb.NewUserRepository(db)
	classRepo := jsondb.NewClassRepository(db)
	rcRepo := jsondb.NewRollCallRepository(db)
	absRepo := jsondb.NewAbsenceRepository(db)
	tmplRepo := jsondb.NewTemplateRepository(db)
	asgRepo := jsondb.NewAssignmentRepository(db)
	slipRepo := jsondb.NewSlipRepository(db)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Address:        core.Conf.Server.Address(),
		Logger:         logger,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		UserSvc:        user.NewService(usrRepo, mailSvc),
		ClassSvc:       class.NewService(classRepo),
		RollCallSvc:    rollcall.NewService(rcRepo, classRepo),
		AbsenceSvc:     absence.NewService(absRepo, rcRepo),
		ProgramSvc:     program.NewService(tmplRepo, asgRepo),
		PointsSvc:      points.NewService(slipRepo, usrRepo),
		DashboardSvc:   dashboard.NewService(classRepo, rcRepo, absRepo, asgRepo, slipRepo),
	})
	go app.Start()

	<-shutdown
	std.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Fatalf("graceful shutdown failed: %v", err)
	}
}
