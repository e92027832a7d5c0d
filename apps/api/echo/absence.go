package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/absence"
)

type absenceApi struct {
	svc *absence.Service
}

func registerAbsenceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *absence.Service) {
	api := absenceApi{svc: svc}

	ag := g.Group("/absences", jwt)
	ag.GET("", api.query)
	ag.POST("", api.save)
	ag.GET("/pending", api.pending)
	ag.PUT("/:id", api.update)
}

func (api *absenceApi) save(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data absence.SaveAbsence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveAbsence")
	}
	ab, err := api.svc.Save(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ab)
}

func (api *absenceApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	abs, err := api.svc.QueryAll(actor)
	if err != nil {
		return err
	}
	if abs == nil {
		abs = []absence.Absence{}
	}
	return ctx.JSON(http.StatusOK, abs)
}

// pending lists the roll-call entries awaiting adjudication in the requested
// window; it defaults to the current calendar week.
func (api *absenceApi) pending(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	start, end := ctx.QueryParam("start"), ctx.QueryParam("end")
	if start == "" || end == "" {
		start, end = absence.WeekRange(time.Now())
	}

	items, err := api.svc.PendingItems(actor, start, end)
	if err != nil {
		return err
	}
	if items == nil {
		items = []absence.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *absenceApi) update(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data absence.SaveAbsence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveAbsence")
	}
	ab, err := api.svc.Update(actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ab)
}
