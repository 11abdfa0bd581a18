// Package metrics provides Prometheus metrics for the register transport and
// streaming state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Kurokesu/ar0822-v4l2-driver/pkg/cci"
)

var (
	cciReads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ar0822",
		Subsystem: "cci",
		Name:      "reads_total",
		Help:      "Total register reads",
	})

	cciWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ar0822",
		Subsystem: "cci",
		Name:      "writes_total",
		Help:      "Total register writes, sequence writes counted per register",
	})

	cciErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ar0822",
		Subsystem: "cci",
		Name:      "errors_total",
		Help:      "Total failed register transactions",
	}, []string{"op"})

	streamingState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ar0822",
		Subsystem: "sensor",
		Name:      "streaming",
		Help:      "1 while the sensor is streaming",
	})
)

// SetStreaming records the streaming state.
func SetStreaming(on bool) {
	if on {
		streamingState.Set(1)
	} else {
		streamingState.Set(0)
	}
}

// InstrumentedBus wraps a cci.Bus and counts transactions and failures.
type InstrumentedBus struct {
	bus cci.Bus
}

// InstrumentBus wraps bus with transaction counters.
func InstrumentBus(bus cci.Bus) *InstrumentedBus {
	return &InstrumentedBus{bus: bus}
}

// Read implements cci.Bus.
func (b *InstrumentedBus) Read(reg cci.Reg) (uint64, error) {
	val, err := b.bus.Read(reg)
	cciReads.Inc()
	if err != nil {
		cciErrors.WithLabelValues("read").Inc()
	}
	return val, err
}

// Write implements cci.Bus.
func (b *InstrumentedBus) Write(reg cci.Reg, val uint64) error {
	err := b.bus.Write(reg, val)
	cciWrites.Inc()
	if err != nil {
		cciErrors.WithLabelValues("write").Inc()
	}
	return err
}

// WriteSequence implements cci.Bus.
func (b *InstrumentedBus) WriteSequence(seq []cci.RegVal) error {
	err := b.bus.WriteSequence(seq)
	cciWrites.Add(float64(len(seq)))
	if err != nil {
		cciErrors.WithLabelValues("write").Inc()
	}
	return err
}

// Close implements cci.Bus.
func (b *InstrumentedBus) Close() error {
	return b.bus.Close()
}
