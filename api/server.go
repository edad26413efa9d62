// Package api serves the name service over HTTP: NFT metadata, the names
// of an owner, availability, and the session guarded write endpoints.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/nns"
)

const shutdownTimeout = 10 * time.Second

// NameService is the part of nns.Service the handlers use.
type NameService interface {
	CheckAvailability(ctx context.Context, name string) (bool, error)
	Register(ctx context.Context, req nns.RegisterRequest) (*nns.RegisterResult, error)
	PrepareRegister(ctx context.Context, req nns.RegisterRequest) (*nns.PreparedTx, error)
	UpdateProfile(ctx context.Context, req nns.UpdateRequest) (*nns.UpdateResult, error)
	PrepareUpdate(ctx context.Context, req nns.UpdateRequest) ([]*nns.PreparedTx, error)
	GetProfilesOfOwner(ctx context.Context, owner string) ([]*nns.Profile, error)
	Metadata(ctx context.Context, name string) (*nns.MetadataDocument, bool, error)
}

type Options struct {
	Service NameService
	// CookieName is the cookie holding the session token.
	CookieName string
	// Relay makes the write endpoints sign and send transactions with the
	// server key. Without it they only validate and return the calls for
	// the client wallet to send.
	Relay bool
	// Mode is a gin mode: debug, release or test.
	Mode     string
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

type Server struct {
	svc        NameService
	cookieName string
	relay      bool
	l          *zap.Logger
	metrics    *metrics.Metrics
	engine     *gin.Engine
}

func NewServer(opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		svc:        opts.Service,
		cookieName: opts.CookieName,
		relay:      opts.Relay,
		l:          l,
		metrics:    opts.Metrics,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.logRequests(), s.measure())
	s.routes(r, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s.engine = r
	return s
}

func (s *Server) routes(r *gin.Engine, metricsHandler http.Handler) {
	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(metricsHandler))

	api := r.Group("/api")
	{
		api.GET("/metadata/:name", s.GetMetadata)
		api.GET("/availability/:name", s.GetAvailability)
		api.GET("/names", s.ListNames)
		api.POST("/names", s.CreateName)
		api.PUT("/names/:name", s.UpdateName)
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.l.Info("http server listening", zap.String("addr", addr), zap.Bool("relay", s.relay))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.l.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
