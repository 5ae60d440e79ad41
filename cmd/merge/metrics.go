package merge

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ValentinKolb/mapbench/cmd/util"
	"github.com/VictoriaMetrics/metrics"
	"github.com/cockroachdb/errors"
)

// mergeMetrics collects the metrics of one merge run
type mergeMetrics struct {
	set            *metrics.Set
	entriesIn      *metrics.Counter
	entriesOut     *metrics.Counter
	instructions   *metrics.Counter
	callbackErrors *metrics.Counter
	groupSize      *metrics.Histogram
	duration       *metrics.Histogram
}

// newMergeMetrics creates a fresh metrics set labeled with the merge mode and engine
func newMergeMetrics(mode, engine string) *mergeMetrics {
	set := metrics.NewSet()
	labels := fmt.Sprintf(`{mode=%q,engine=%q}`, mode, engine)

	return &mergeMetrics{
		set:            set,
		entriesIn:      set.NewCounter("mapbench_merge_entries_in_total" + labels),
		entriesOut:     set.NewCounter("mapbench_merge_entries_out_total" + labels),
		instructions:   set.NewCounter("mapbench_merge_instructions_total" + labels),
		callbackErrors: set.NewCounter("mapbench_merge_callback_errors_total" + labels),
		groupSize:      set.NewHistogram("mapbench_merge_group_size" + labels),
		duration:       set.NewHistogram("mapbench_merge_duration_seconds" + labels),
	}
}

// observeDuration records the time elapsed since start
func (m *mergeMetrics) observeDuration(start time.Time) {
	m.duration.Update(time.Since(start).Seconds())
}

// writeTo writes all metrics in Prometheus text format
func (m *mergeMetrics) writeTo(w io.Writer) {
	m.set.WritePrometheus(w)
}

// write writes the metrics to path, "-" writes to stdout
func (m *mergeMetrics) write(path string, stdout io.Writer) error {
	if path == util.StdStream {
		m.writeTo(stdout)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write metrics")
	}
	m.writeTo(f)
	return errors.Wrap(f.Close(), "write metrics")
}
