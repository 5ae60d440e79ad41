package merge

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/mapbench/cmd/util"
	"github.com/ValentinKolb/mapbench/lib/codec"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/ValentinKolb/mapbench/lib/omap/engines/btree"
	"github.com/ValentinKolb/mapbench/lib/omap/engines/slice"
	"github.com/ValentinKolb/mapbench/lib/strategy"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairedValuesInput = `[
  {"key": "a", "value": 1},
  {"key": "b", "value": 1},
  {"key": "c", "value": 2},
  {"key": "d", "value": 2}
]`

func newConfig(engine omap.Implementation, mode string) *mergeConfig {
	conf := &mergeConfig{
		Mode:      mode,
		In:        util.StdStream,
		Out:       util.StdStream,
		Predicate: strategy.EqualValue,
		Absorber:  strategy.Sum,
		Codec:     codec.NewJSONCodec(),
	}
	switch engine {
	case omap.ImplSlice:
		conf.Map = slice.New[string, strategy.Value](nil)
	default:
		conf.Map = btree.New[string, strategy.Value](nil)
	}
	return conf
}

func decode(t *testing.T, data []byte) []codec.Record {
	t.Helper()
	records, err := codec.NewJSONCodec().Decode(data)
	require.NoError(t, err)
	return records
}

func TestRunMerge_Consecutive(t *testing.T) {
	for _, engine := range []omap.Implementation{omap.ImplBTree, omap.ImplSlice} {
		t.Run(string(engine), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			conf := newConfig(engine, ModeConsecutive)

			err := runMerge(conf, strings.NewReader(pairedValuesInput), &stdout, &stderr)
			require.NoError(t, err)

			assert.Equal(t, []codec.Record{{Key: "a", Value: 2.0}, {Key: "c", Value: 4.0}}, decode(t, stdout.Bytes()))
		})
	}
}

func TestRunMerge_GlobalWithExpressions(t *testing.T) {
	input := `[{"key":"bcde","value":"x"},{"key":"abcd","value":"w"},{"key":"cdefg","value":"y"},{"key":"defg","value":"z"}]`

	pred, err := strategy.NewExprPredicate("len(current.key) == len(candidate.key)")
	require.NoError(t, err)
	abs, err := strategy.NewExprAbsorber("dst.value + src.value")
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	conf := newConfig(omap.ImplSlice, ModeGlobal)
	conf.Predicate = pred
	conf.Absorber = abs

	require.NoError(t, runMerge(conf, strings.NewReader(input), &stdout, &stderr))
	assert.Equal(t, []codec.Record{
		{Key: "abcd", Value: "wx"},
		{Key: "cdefg", Value: "y"},
		{Key: "defg", Value: "z"},
	}, decode(t, stdout.Bytes()))
}

func TestRunMerge_PrintPlan(t *testing.T) {
	var stdout, stderr bytes.Buffer
	conf := newConfig(omap.ImplBTree, ModeGlobal)
	conf.PrintPlan = true

	require.NoError(t, runMerge(conf, strings.NewReader(pairedValuesInput), &stdout, &stderr))
	assert.Equal(t, "\"a\" <- \"b\"\n\"c\" <- \"d\"\n", stdout.String())
	assert.Equal(t, 4, conf.Map.Len(), "printing the plan must not modify the map")
}

func TestRunMerge_PrintPlanWithStatsAndMetrics(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "metrics.prom")

	var stdout, stderr bytes.Buffer
	conf := newConfig(omap.ImplSlice, ModeGlobal)
	conf.PrintPlan = true
	conf.Stats = true
	conf.MetricsPath = metricsPath

	require.NoError(t, runMerge(conf, strings.NewReader(pairedValuesInput), &stdout, &stderr))
	assert.Equal(t, "\"a\" <- \"b\"\n\"c\" <- \"d\"\n", stdout.String(), "stdout only carries the plan")

	var rep report
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &rep))
	assert.True(t, rep.PlanOnly)
	assert.Equal(t, 2, rep.Instructions)
	assert.Equal(t, 2, rep.Groups.Count, "a and c survive the plan")
	assert.Equal(t, 2.0, rep.Groups.Min)
	assert.Equal(t, 4, rep.Engine.Len)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `mapbench_merge_instructions_total{mode="global",engine="slice"} 2`)
	assert.Contains(t, string(prom), `mapbench_merge_entries_in_total{mode="global",engine="slice"} 4`)
}

func TestRunMerge_DuplicateKeys(t *testing.T) {
	input := `[{"key":"a","value":1},{"key":"a","value":2}]`

	for _, engine := range []omap.Implementation{omap.ImplBTree, omap.ImplSlice} {
		t.Run(string(engine), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := runMerge(newConfig(engine, ModeConsecutive), strings.NewReader(input), &stdout, &stderr)

			require.Error(t, err)
			assert.True(t, errors.Is(err, omap.ErrDuplicateKey))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunMerge_CallbackErrors(t *testing.T) {
	input := `[{"key":"a","value":1},{"key":"b","value":"text"}]`

	var stdout, stderr bytes.Buffer
	conf := newConfig(omap.ImplBTree, ModeGlobal)
	conf.Predicate = strategy.Always

	err := runMerge(conf, strings.NewReader(input), &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absorber sum")
	assert.Empty(t, stdout.String(), "no output is written if a callback failed")
}

func TestRunMerge_FilesStatsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bin")
	out := filepath.Join(dir, "out.bin")
	metricsPath := filepath.Join(dir, "metrics.prom")

	bin := codec.NewBinaryCodec()
	data, err := bin.Encode([]codec.Record{
		{Key: "a", Value: 1.0},
		{Key: "b", Value: 1.0},
		{Key: "c", Value: 1.0},
		{Key: "d", Value: 5.0},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, data, 0o644))

	var stdout, stderr bytes.Buffer
	conf := newConfig(omap.ImplSlice, ModeConsecutive)
	conf.In = in
	conf.Out = out
	conf.Codec = bin
	conf.Stats = true
	conf.MetricsPath = metricsPath

	require.NoError(t, runMerge(conf, nil, &stdout, &stderr))
	assert.Empty(t, stdout.String())

	// output
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	records, err := bin.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []codec.Record{{Key: "a", Value: 3.0}, {Key: "d", Value: 5.0}}, records)

	// stats
	var rep report
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &rep))
	assert.Equal(t, omap.Info{Impl: omap.ImplSlice, Len: 2}, rep.Engine)
	assert.Equal(t, 4, rep.Before.Count)
	assert.Equal(t, 2, rep.After.Count)
	assert.Equal(t, 8.0, rep.After.Sum)
	assert.True(t, rep.SumConserved)
	assert.Equal(t, 3.0, rep.Groups.Max)
	assert.Equal(t, 1.0, rep.Groups.Min)
	assert.Len(t, rep.Fingerprint, 16)

	// metrics
	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `mapbench_merge_entries_in_total{mode="consecutive",engine="slice"} 4`)
	assert.Contains(t, string(prom), `mapbench_merge_entries_out_total{mode="consecutive",engine="slice"} 2`)
	assert.Contains(t, string(prom), `mapbench_merge_callback_errors_total{mode="consecutive",engine="slice"} 0`)
}

func TestRunMerge_RejectsUsedMap(t *testing.T) {
	conf := newConfig(omap.ImplBTree, ModeConsecutive)
	conf.Map.Set("x", 1.0)

	err := runMerge(conf, strings.NewReader(pairedValuesInput), &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsAssertionFailure(err))
}

func TestMergeCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(pairedValuesInput), 0o644))

	var stdout bytes.Buffer
	MergeCmd.SetOut(&stdout)
	MergeCmd.SetErr(&bytes.Buffer{})
	MergeCmd.SetArgs([]string{"--in", in, "--engine", "slice", "--mode", "global", "--absorb", "max"})

	require.NoError(t, MergeCmd.Execute())
	assert.Equal(t, []codec.Record{{Key: "a", Value: 1.0}, {Key: "c", Value: 2.0}}, decode(t, stdout.Bytes()))
	assert.Equal(t, ModeGlobal, mergeCmdConfig.Mode)
	assert.Equal(t, "max", mergeCmdConfig.Absorber.Name)
	assert.Equal(t, omap.ImplSlice, mergeCmdConfig.Map.Info().Impl)
}

func TestMergeCmd_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "metrics and records on stdout", args: []string{"--mode", "consecutive", "--out", "-", "--metrics", "-"}},
		{name: "metrics and plan on stdout", args: []string{"--mode", "global", "--plan", "--out", "out.json", "--metrics", "-"}},
		{name: "mode", args: []string{"--mode", "sideways"}},
		{name: "plan in consecutive mode", args: []string{"--mode", "consecutive", "--plan"}},
		{name: "predicate", args: []string{"--mode", "global", "--predicate", "nope"}},
		{name: "expression", args: []string{"--mode", "global", "--predicate", "always", "--predicate-expr", "current.key =="}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			MergeCmd.SetOut(&bytes.Buffer{})
			MergeCmd.SetErr(&bytes.Buffer{})
			MergeCmd.SetArgs(tc.args)
			assert.Error(t, MergeCmd.Execute())
		})
	}
}
