package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/rollcall"
)

type rollCallApi struct {
	svc *rollcall.Service
}

func registerRollCallAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *rollcall.Service) {
	api := rollCallApi{svc: svc}

	rg := g.Group("/rollcalls", jwt)
	rg.GET("", api.query)
	rg.POST("", api.create)

	dg := rg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
}

func (api *rollCallApi) create(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data rollcall.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	rec, err := api.svc.Create(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *rollCallApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	recs, err := api.svc.QueryAll(actor)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []rollcall.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *rollCallApi) retrieve(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.GetByID(actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *rollCallApi) update(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data rollcall.UpdateRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}
	rec, err := api.svc.Update(actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
