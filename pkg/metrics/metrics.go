package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Embedded time-series store for lightweight operational metrics
// (orders created, request counters, process gauges).

var (
	mu    sync.Mutex
	store tstorage.Storage
)

// Init opens the metrics store under the application workdir.
func Init(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
	)
	if err != nil {
		return err
	}
	store = s
	return nil
}

// SetGauge records a point for the named metric at the current time.
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return
	}
	_ = store.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
}

// Incr records a +1 sample for the named counter metric.
func Incr(name string) {
	SetGauge(name, 1)
}

// Range returns the stored points for a metric between start and end (unix seconds).
func Range(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil, nil
	}
	return store.Select(name, nil, start, end)
}

// Close flushes and closes the metrics store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
