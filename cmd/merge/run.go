package merge

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ValentinKolb/mapbench/cmd/util"
	"github.com/ValentinKolb/mapbench/lib/codec"
	mergeLib "github.com/ValentinKolb/mapbench/lib/merge"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/ValentinKolb/mapbench/lib/strategy"
	libUtil "github.com/ValentinKolb/mapbench/lib/util"
	"github.com/cockroachdb/errors"
)

// report is printed to stderr by --stats
type report struct {
	Engine       omap.Info                 `json:"engine"`
	Mode         string                    `json:"mode"`
	Predicate    string                    `json:"predicate"`
	Absorber     string                    `json:"absorber"`
	Instructions int                       `json:"instructions,omitempty"`
	PlanOnly     bool                      `json:"plan_only,omitempty"` // map left unchanged, groups as planned
	Before       libUtil.Stats             `json:"before"`
	After        libUtil.Stats             `json:"after"`
	SumConserved bool                      `json:"sum_conserved"`
	Groups       libUtil.DistributionStats `json:"groups"`
	Fingerprint  string                    `json:"fingerprint"`
	DurationMs   float64                   `json:"duration_ms"`
}

// runMerge executes a merge as configured by conf
func runMerge(conf *mergeConfig, stdin io.Reader, stdout, stderr io.Writer) error {
	info := conf.Map.Info()
	if info.Len != 0 {
		return errors.AssertionFailedf("merge: map must be empty before loading, has %d entries", info.Len)
	}

	m := newMergeMetrics(conf.Mode, string(info.Impl))
	start := time.Now()

	// load records
	records, err := util.ReadRecords(conf.In, stdin, conf.Codec)
	if err != nil {
		return err
	}
	entries := make([]strategy.Entry, len(records))
	for i, r := range records {
		entries[i] = strategy.Entry{Key: r.Key, Value: r.Value}
	}
	if err := conf.Map.Load(entries); err != nil {
		return errors.Wrapf(err, "load %s", conf.In)
	}
	m.entriesIn.Add(len(entries))
	plog.Infof("loaded %d records from %s into %s map", len(entries), conf.In, info.Impl)

	before := numericStats(conf.Map)
	binding := strategy.Bind(conf.Predicate, conf.Absorber)
	groups := make(map[string]int)

	// merge
	rep := report{Mode: conf.Mode, Predicate: conf.Predicate.Name, Absorber: conf.Absorber.Name}
	switch conf.Mode {
	case ModeConsecutive:
		absorb := binding.Absorb()
		mergeLib.MergeConsecutive(conf.Map, binding.Predicate(), func(dstKey string, dst *strategy.Value, srcKey string, src *strategy.Value) {
			groups[dstKey]++
			absorb(dstKey, dst, srcKey, src)
		})
	case ModeGlobal:
		plan := mergeLib.Plan(conf.Map, binding.Predicate())
		m.instructions.Add(len(plan))
		rep.Instructions = len(plan)

		if conf.PrintPlan {
			sources := make(map[string]bool, len(plan))
			for _, in := range plan {
				fmt.Fprintf(stdout, "%s <- %s\n", strconv.Quote(in.Destination), strconv.Quote(in.Source))
				groups[in.Destination]++
				sources[in.Source] = true
			}
			if err := callbackError(binding, m); err != nil {
				return err
			}

			survivors := make([]string, 0, conf.Map.Len()-len(plan))
			for k := range conf.Map.All() {
				if !sources[k] {
					survivors = append(survivors, k)
				}
			}
			rep.PlanOnly = true
			plog.Infof("planned %d instructions for %d records in %s", len(plan), len(entries), time.Since(start))
			return finish(conf, m, &rep, before, groups, survivors, start, stdout, stderr)
		}

		absorb := binding.AbsorbOwned()
		mergeLib.Apply(conf.Map, plan, func(dstKey string, dst *strategy.Value, srcKey string, src strategy.Value) {
			groups[dstKey]++
			absorb(dstKey, dst, srcKey, src)
		})
	default:
		return errors.Newf("invalid mode %s", conf.Mode)
	}

	if err := callbackError(binding, m); err != nil {
		return err
	}

	// write result
	out := make([]codec.Record, 0, conf.Map.Len())
	keys := make([]string, 0, conf.Map.Len())
	for k, v := range conf.Map.All() {
		out = append(out, codec.Record{Key: k, Value: v})
		keys = append(keys, k)
	}
	if err := util.WriteRecords(conf.Out, stdout, conf.Codec, out); err != nil {
		return err
	}
	m.entriesOut.Add(len(out))
	plog.Infof("merged %d records into %d records in %s", len(entries), len(out), time.Since(start))

	return finish(conf, m, &rep, before, groups, keys, start, stdout, stderr)
}

// finish records the group sizes of the surviving keys and writes the stats report and the metrics
func finish(conf *mergeConfig, m *mergeMetrics, rep *report, before libUtil.Stats, groups map[string]int,
	survivors []string, start time.Time, stdout, stderr io.Writer) error {
	groupSizes := make([]float64, 0, len(survivors))
	for _, k := range survivors {
		size := float64(groups[k] + 1)
		groupSizes = append(groupSizes, size)
		m.groupSize.Update(size)
	}
	m.observeDuration(start)

	if conf.Stats {
		rep.Engine = conf.Map.Info()
		rep.Before = before
		rep.After = numericStats(conf.Map)
		rep.SumConserved = libUtil.SumEqual(rep.Before, rep.After)
		rep.Groups = libUtil.NewDistributionStats(groupSizes)
		rep.Fingerprint = fmt.Sprintf("%016x", libUtil.Fingerprint(survivors))
		rep.DurationMs = float64(time.Since(start).Microseconds()) / 1000

		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode stats")
		}
		fmt.Fprintln(stderr, string(data))
	}

	if conf.MetricsPath != "" {
		return m.write(conf.MetricsPath, stdout)
	}
	return nil
}

// callbackError returns the collected strategy errors and counts them
func callbackError(b *strategy.Binding, m *mergeMetrics) error {
	err := b.Err()
	if err != nil {
		m.callbackErrors.Add(b.Failures())
		plog.Errorf("merge callbacks failed: %v", err)
	}
	return err
}

// numericStats summarizes all numeric values of the map
func numericStats(m omap.OrderedMap[string, strategy.Value]) libUtil.Stats {
	values := make([]float64, 0, m.Len())
	for _, v := range m.All() {
		if f, ok := strategy.Normalize(v).(float64); ok {
			values = append(values, f)
		}
	}
	return libUtil.NewStats(values)
}
