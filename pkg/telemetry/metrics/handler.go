package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// The server mounts it at MetricsConfig.Path. Scrape timeouts are left to
// the server's write timeout.
//
// Example:
//
//	collector := metrics.NewCollector(cfg, nil)
//	mux.Handle(cfg.Path, collector.Handler())
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

