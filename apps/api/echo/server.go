package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/absence"
	"github.com/trezcool/hudhuria/core/class"
	"github.com/trezcool/hudhuria/core/dashboard"
	"github.com/trezcool/hudhuria/core/points"
	"github.com/trezcool/hudhuria/core/program"
	"github.com/trezcool/hudhuria/core/rollcall"
	"github.com/trezcool/hudhuria/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger         core.Logger
		SignalShutdown func()

		UserSvc      *user.Service
		ClassSvc     *class.Service
		RollCallSvc  *rollcall.Service
		AbsenceSvc   *absence.Service
		ProgramSvc   *program.Service
		PointsSvc    *points.Service
		DashboardSvc *dashboard.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(v1, jwt, s.opts.UserSvc)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerClassAPI(v1, jwt, s.opts.ClassSvc)
	registerRollCallAPI(v1, jwt, s.opts.RollCallSvc)
	registerAbsenceAPI(v1, jwt, s.opts.AbsenceSvc)
	registerProgramAPI(v1, jwt, s.opts.ProgramSvc)
	registerPointsAPI(v1, jwt, s.opts.PointsSvc)
	registerDashboardAPI(v1, jwt, s.opts.DashboardSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
