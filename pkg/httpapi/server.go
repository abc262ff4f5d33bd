package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/praetorian-inc/adocref/pkg/checker"
)

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves the API on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, core *checker.Core) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(core),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
