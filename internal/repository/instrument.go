package repository

import (
	"context"
	"time"

	"github.com/sepsisai/clinical-api/pkg/metrics"
)

// instrumentedKV decorates a KVStore with operation counters and
// latency histograms.
type instrumentedKV struct {
	next KVStore
	m    *metrics.Metrics
}

// NewInstrumentedKV wraps store with Prometheus instrumentation.
func NewInstrumentedKV(store KVStore, m *metrics.Metrics) KVStore {
	return &instrumentedKV{next: store, m: m}
}

func (s *instrumentedKV) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return value, ok, err
}

func (s *instrumentedKV) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *instrumentedKV) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedKV) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.m.StoreOperations.WithLabelValues(op, result).Inc()
	s.m.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
