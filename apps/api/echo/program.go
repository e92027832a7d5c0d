package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/program"
)

type programApi struct {
	svc *program.Service
}

func registerProgramAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *program.Service) {
	api := programApi{svc: svc}

	tg := g.Group("/program-templates", jwt)
	tg.GET("", api.queryTemplates)
	tg.POST("", api.createTemplate)
	tg.PUT("/:id", api.updateTemplate)
	tg.DELETE("/:id", api.destroyTemplate)

	sg := g.Group("/student-programs", jwt)
	sg.GET("", api.queryAssignments)
	sg.POST("", api.assign)
	sg.PUT("/:id", api.updateAssignment)
	sg.DELETE("/:id", api.destroyAssignment)
}

// Templates

func (api *programApi) createTemplate(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data program.NewTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTemplate")
	}
	t, err := api.svc.CreateTemplate(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *programApi) queryTemplates(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	tmpls, err := api.svc.QueryAllTemplates(actor)
	if err != nil {
		return err
	}
	if tmpls == nil {
		tmpls = []program.Template{}
	}
	return ctx.JSON(http.StatusOK, tmpls)
}

func (api *programApi) updateTemplate(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data program.UpdateTemplate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTemplate")
	}
	t, err := api.svc.UpdateTemplate(actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *programApi) destroyTemplate(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteTemplate(actor, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Assignments

func (api *programApi) assign(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data program.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	a, err := api.svc.Assign(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *programApi) queryAssignments(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	as, err := api.svc.QueryAssignments(actor)
	if err != nil {
		return err
	}
	if as == nil {
		as = []program.Assignment{}
	}
	return ctx.JSON(http.StatusOK, as)
}

func (api *programApi) updateAssignment(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data program.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	a, err := api.svc.UpdateAssignment(actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *programApi) destroyAssignment(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteAssignment(actor, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
