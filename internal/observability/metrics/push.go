package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJobName is the Pushgateway job label used by run-once executions.
const PushJobName = "news_tagger"

// Push sends the run metrics gathered by g to a Prometheus Pushgateway.
// A nil gatherer means the default registry.
func Push(url string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := push.New(url, PushJobName).Gatherer(g).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
