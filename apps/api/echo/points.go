package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/points"
)

type pointsApi struct {
	svc *points.Service
}

func registerPointsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *points.Service) {
	api := pointsApi{svc: svc}

	pg := g.Group("/slips", jwt)
	pg.GET("", api.query)
	pg.POST("", api.create)
}

func (api *pointsApi) create(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data points.NewSlip
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSlip")
	}
	s, err := api.svc.Create(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *pointsApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	slips, err := api.svc.QueryAll(actor)
	if err != nil {
		return err
	}
	if slips == nil {
		slips = []points.Slip{}
	}
	return ctx.JSON(http.StatusOK, slips)
}
