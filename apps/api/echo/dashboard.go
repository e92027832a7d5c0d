package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hudhuria/core/dashboard"
)

type dashboardApi struct {
	svc *dashboard.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *dashboard.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/dashboard", api.summary, jwt)
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	summary, err := api.svc.Summarize(actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}
