package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/underwrite-cli/internal/coa"
	"github.com/sells-group/underwrite-cli/internal/config"
	"github.com/sells-group/underwrite-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the underwriting API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		uw, err := pipeline.NewDefaultUnderwriter(cfg.Normalize)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(uw, cfg.Server),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func buildRouter(uw *pipeline.Underwriter, srvCfg config.ServerConfig) http.Handler {
	matcher := coa.NewMatcher(uw.Chart())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: srvCfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(srvCfg.RatePerSecond), srvCfg.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/accounts", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, uw.Chart().Accounts)
	})

	r.Post("/api/match", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Labels []string `json:"labels"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(body.Labels) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "labels are required"})
			return
		}
		mappings := make([]any, 0, len(body.Labels))
		for _, label := range body.Labels {
			mappings = append(mappings, matcher.Match(label))
		}
		writeJSON(w, http.StatusOK, map[string]any{"mappings": mappings})
	})

	r.Post("/api/underwrite", func(w http.ResponseWriter, req *http.Request) {
		var deal pipeline.Deal
		if err := json.NewDecoder(req.Body).Decode(&deal); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(deal.Records) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "records are required"})
			return
		}

		res, err := uw.UnderwriteDeal(deal)
		if err != nil {
			zap.L().Error("underwrite request failed",
				zap.String("deal", deal.Name),
				zap.Error(err),
			)
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	return r
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
