package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecoparque/residuos-go/internal/schema"
)

// GetEntityStats returns the aggregate statistics of one table.
func (c *Controller) GetEntityStats(ctx echo.Context) error {
	kind, err := c.entityParam(ctx)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	stats, err := c.records.Aggregate(kind)
	if err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// GetSummary returns the cross-entity dashboard totals.
func (c *Controller) GetSummary(ctx echo.Context) error {
	sum, err := c.records.Summary()
	if err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, sum)
}

// RunBackup snapshots every entity table on demand.
func (c *Controller) RunBackup(ctx echo.Context) error {
	if c.backups == nil || !c.backups.Enabled() {
		return ctx.JSON(http.StatusConflict, map[string]string{"error": "backups are disabled"})
	}
	results := make(map[string]any, len(schema.AllKinds()))
	for _, kind := range schema.AllKinds() {
		info, err := c.backups.Snapshot(kind)
		switch {
		case err != nil:
			results[string(kind)] = map[string]string{"error": err.Error()}
		case info == nil:
			results[string(kind)] = map[string]string{"status": "skipped"}
		default:
			results[string(kind)] = info
		}
	}
	return ctx.JSON(http.StatusOK, results)
}

// GetBackupStats reports per-entity snapshot counts and sizes.
func (c *Controller) GetBackupStats(ctx echo.Context) error {
	if c.backups == nil {
		return ctx.JSON(http.StatusConflict, map[string]string{"error": "backups are disabled"})
	}
	stats, err := c.backups.GetStats()
	if err != nil {
		return c.HandleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}
