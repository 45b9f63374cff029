// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/co"
	"github.com/vechain/stakepool/log"
)

// MaxRequestBodySize caps the body of any API request.
const MaxRequestBodySize = 200 * 1024

var logger = log.WithContext("pkg", "httpserver")

// ServeAPI serves handler on listener until ctx is done.
func ServeAPI(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           http.MaxBytesHandler(handler, MaxRequestBodySize),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}

	var goes co.Goes
	stop := goes.GoCtx(ctx, func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shutdown API server", "err", err)
		}
	})
	defer func() {
		stop()
		goes.Wait()
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve API")
	}
	return nil
}
