// Package metrics provides Prometheus metrics for the bridge services.
//
// It includes HTTP request metrics with an Echo middleware, bridge, payment
// and attempt counters fed through Recorder, and a metrics HTTP server.
package metrics

const (
	namespace = "btc_bridge"

	// ServiceHTTP selects the HTTP request metrics.
	ServiceHTTP = "http"
	// ServiceBridge selects the bridge, payment and attempt metrics.
	ServiceBridge = "bridge"
)
