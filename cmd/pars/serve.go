package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	parsgin "github.com/IDGORRU/pars/gin"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// context is canceled.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := parsgin.NewServer(deps.Runner,
		parsgin.WithRunService(deps.Runs),
		parsgin.WithMetrics(deps.Metrics),
		parsgin.WithLogger(deps.Logger),
	)

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", c.Addr, err)
	}

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.Serve(ln)
	}()
	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(deps.Ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
