package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	websifthttp "github.com/websift/websift/http"
)

// Run executes the serve command. It blocks until the server fails or
// the command context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := websifthttp.NewServer()
	srv.Fetcher = deps.Fetcher
	srv.Analyzer = deps.Analyzer
	srv.Scraper = deps.Scraper
	srv.DeepScraper = deps.DeepScraper
	srv.Sessions = deps.Sessions
	srv.Profiles = deps.Profiles
	srv.Logger = deps.Logger

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Open(c.Addr)
	}()

	fmt.Fprintf(deps.Stderr, "websift listening on %s\n", c.Addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-deps.Ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
