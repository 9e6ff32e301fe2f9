package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/compass"
	"github.com/ausgeo/compass-cli/internal/distribution"
	"github.com/ausgeo/compass-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve direction lookups over the latest stored run",
	Long: `Loads the most recent run from the local store and serves direction lookups,
the place list, and the stored distribution summary over HTTP.

Requires a run recorded with 'relations --store'; the distribution endpoint
additionally requires 'analyze --store'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "serve: open store")
		}
		defer func() { _ = s.Close() }()

		if err := s.Migrate(ctx); err != nil {
			return eris.Wrap(err, "serve")
		}
		run, err := s.LatestRun(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: no stored run, run 'relations --store' first")
		}
		places, err := s.Places(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "serve")
		}

		// The distribution is optional: analyze --store may not have run yet.
		summary, err := s.Distribution(ctx, run.ID)
		if err != nil {
			zap.L().Warn("serve: no stored distribution for run", zap.String("run_id", run.ID))
			summary = nil
		}

		mux := newServeMux(places, summary)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("run_id", run.ID),
			zap.Int("places", places.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}

		return nil
	},
}

// newServeMux builds the API routes over an in-memory place mapping and
// an optional distribution summary.
func newServeMux(places *centroid.Mapping, summary *distribution.Summary) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /v1/places", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"count":  places.Len(),
			"places": places.Names,
		})
	})

	mux.HandleFunc("GET /v1/direction", func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from and to are required"})
			return
		}

		src, ok := places.Lookup(from)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown place %q", from)})
			return
		}
		tgt, ok := places.Lookup(to)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown place %q", to)})
			return
		}

		dir := compass.Classify(src.Lat, src.Lon, tgt.Lat, tgt.Lon)
		writeJSON(w, http.StatusOK, map[string]any{
			"from":      map[string]any{"name": from, "latitude": src.Lat, "longitude": src.Lon},
			"to":        map[string]any{"name": to, "latitude": tgt.Lat, "longitude": tgt.Lon},
			"direction": dir,
			"reverse":   compass.Opposite(dir),
		})
	})

	mux.HandleFunc("GET /v1/distribution", func(w http.ResponseWriter, r *http.Request) {
		if summary == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no distribution recorded, run 'analyze --store' first"})
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
