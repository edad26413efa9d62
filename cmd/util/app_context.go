package util

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/ui"
)

// AppContext holds what the root pre-run hook builds once: the loaded
// configuration, the logger and the terminal. Commands retrieve it with
// AppContextFrom instead of reading config.* globals.
type AppContext struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// Registry holds the collectors of Metrics, nns serve exposes it.
	Registry *prometheus.Registry
	UI       ui.UI
}

type appContextKey struct{}

func WithAppContext(ctx context.Context, ac *AppContext) context.Context {
	return context.WithValue(ctx, appContextKey{}, ac)
}

// AppContextFrom returns false when no pre-run hook attached a context,
// which only happens in tests that call a RunE directly.
func AppContextFrom(cmd *cobra.Command) (*AppContext, bool) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, false
	}
	ac, ok := ctx.Value(appContextKey{}).(*AppContext)
	return ac, ok
}
