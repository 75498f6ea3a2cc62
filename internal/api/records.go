package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/schema"
)

func (c *Controller) entityParam(ctx echo.Context) (schema.Kind, error) {
	kind, err := schema.ParseKind(ctx.Param("entity"))
	if err != nil {
		return "", errors.New(err).
			Component("api").
			Category(errors.CategoryNotFound).
			Build()
	}
	return kind, nil
}

// ListRecords returns the rows matching the query-parameter filters.
// Column names act as equality filters; date_from/date_to and
// weight_min/weight_max bound ranges.
func (c *Controller) ListRecords(ctx echo.Context) error {
	kind, err := c.entityParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	filters, err := parseFilters(ctx, kind)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	rows, err := c.records.Query(kind, filters)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"entity": kind,
		"count":  len(rows),
		"rows":   rows,
	})
}

// CreateRecord creates a row from a flat JSON object of column values.
func (c *Controller) CreateRecord(ctx echo.Context) error {
	kind, err := c.entityParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	var fields map[string]string
	if err := ctx.Bind(&fields); err != nil {
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Build())
	}
	id, err := c.records.Create(kind, fields)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{"id": id})
}

// GetRecord returns one row by id.
func (c *Controller) GetRecord(ctx echo.Context) error {
	kind, err := c.entityParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	row, err := c.records.Get(kind, ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, row)
}

// UpdateRecord applies a partial column update to one row.
func (c *Controller) UpdateRecord(ctx echo.Context) error {
	kind, err := c.entityParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	var partial map[string]string
	if err := ctx.Bind(&partial); err != nil {
		return c.HandleError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Build())
	}
	id := ctx.Param("id")
	if err := c.records.Update(kind, id, partial); err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"id": id})
}

// DeleteRecord removes one row; the optional mode query parameter
// overrides the configured per-entity default.
func (c *Controller) DeleteRecord(ctx echo.Context) error {
	kind, err := c.entityParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	id := ctx.Param("id")
	if err := c.records.Delete(kind, id, ctx.QueryParam("mode")); err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func parseFilters(ctx echo.Context, kind schema.Kind) (records.Filters, error) {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return records.Filters{}, err
	}

	filters := records.Filters{}
	for _, col := range desc.ColumnNames() {
		if v := ctx.QueryParam(col); v != "" {
			if filters.Equals == nil {
				filters.Equals = make(map[string]string)
			}
			filters.Equals[col] = v
		}
	}

	badParam := func(name, value string) error {
		return errors.Newf("invalid %s value %q", name, value).
			Component("api").
			Category(errors.CategoryValidation).
			Context("parameter", name).
			Build()
	}
	if v := ctx.QueryParam("date_from"); v != "" {
		d, err := time.Parse(schema.DateLayout, v)
		if err != nil {
			return filters, badParam("date_from", v)
		}
		filters.DateFrom = &d
	}
	if v := ctx.QueryParam("date_to"); v != "" {
		d, err := time.Parse(schema.DateLayout, v)
		if err != nil {
			return filters, badParam("date_to", v)
		}
		filters.DateTo = &d
	}
	if v := ctx.QueryParam("weight_min"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, badParam("weight_min", v)
		}
		filters.WeightMin = &w
	}
	if v := ctx.QueryParam("weight_max"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, badParam("weight_max", v)
		}
		filters.WeightMax = &w
	}
	return filters, nil
}
