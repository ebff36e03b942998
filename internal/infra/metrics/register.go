package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

// enroll queues collectors declared by this package's init functions until
// MustRegister installs them.
func enroll(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every enrolled collector into the default registry.
// Subsequent calls are no-ops, so tests and main can both call it.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pending...)
	})
}
