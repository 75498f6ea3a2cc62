package api

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Start runs the HTTP server on the configured address and blocks until
// it stops. A closed server is not an error.
func (c *Controller) Start() error {
	addr := net.JoinHostPort(c.Settings.WebServer.Address, c.Settings.WebServer.Port)
	c.logger.Info("starting server", "address", addr)
	if err := c.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.logger.Info("shutting down server")
	return c.Echo.Shutdown(ctx)
}
