package merge

import (
	"github.com/ValentinKolb/mapbench/cmd/util"
	"github.com/ValentinKolb/mapbench/lib/codec"
	"github.com/ValentinKolb/mapbench/lib/logging"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/ValentinKolb/mapbench/lib/strategy"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var plog = logger.GetLogger(logging.Cmd)

// Merge modes
const (
	ModeConsecutive = "consecutive"
	ModeGlobal      = "global"
)

// mergeConfig holds the settings of a single merge run
type mergeConfig struct {
	Mode        string
	In          string
	Out         string
	PrintPlan   bool
	Stats       bool
	MetricsPath string
	Predicate   strategy.Predicate
	Absorber    strategy.Absorber
	Codec       codec.ICodec
	Map         omap.OrderedMap[string, strategy.Value]
}

var (
	mergeCmdConfig = &mergeConfig{}
	registry       = strategy.DefaultRegistry()

	// MergeCmd represents the merge command
	MergeCmd = &cobra.Command{
		Use:   "merge",
		Short: "Merge the entries of a record file",
		Long: `Reads a record file into an ordered map, merges entries with their successors and writes the remaining entries in ascending key order.

consecutive: every entry is compared with the first entry of the current run and absorbed into it while the predicate holds.
global: a plan of (destination, source) pairs is computed first and applied afterwards. A destination absorbs all following entries the predicate accepts.

The configuration can be set via command line flags or environment variables. The format of the environment variables is MAPBENCH_<flag> (e.g. MAPBENCH_ENGINE=slice)`,
		Args:    cobra.NoArgs,
		PreRunE: processConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(mergeCmdConfig, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
)

func init() {
	// add flags
	key := "mode"
	MergeCmd.Flags().String(key, ModeConsecutive, util.WrapString("Merge algorithm to use (consecutive, global)"))

	key = "engine"
	MergeCmd.Flags().String(key, string(omap.ImplBTree), util.WrapString("Ordered map implementation (btree, slice)"))

	key = "btree-degree"
	MergeCmd.Flags().Int(key, 32, util.WrapString("Degree of the B-tree (only for the btree engine)"))

	key = "predicate"
	MergeCmd.Flags().String(key, strategy.EqualValue.Name, util.WrapString("Name of the predicate deciding whether two entries are merged (see mapbench strategies)"))

	key = "predicate-expr"
	MergeCmd.Flags().String(key, "", util.WrapString("Boolean expression over current and candidate (e.g. 'current.value == candidate.value'). Overrides --predicate"))

	key = "absorb"
	MergeCmd.Flags().String(key, strategy.Sum.Name, util.WrapString("Name of the absorber combining two values (see mapbench strategies)"))

	key = "absorb-expr"
	MergeCmd.Flags().String(key, "", util.WrapString("Expression over dst and src returning the new destination value (e.g. 'dst.value + src.value'). Overrides --absorb"))

	key = "in"
	MergeCmd.Flags().String(key, util.StdStream, util.WrapString("Input record file ('-' reads from stdin)"))

	key = "out"
	MergeCmd.Flags().String(key, util.StdStream, util.WrapString("Output record file ('-' writes to stdout)"))

	key = "format"
	MergeCmd.Flags().String(key, "json", util.WrapString("Record file format (json, gob, binary)"))

	key = "plan"
	MergeCmd.Flags().Bool(key, false, util.WrapString("Print the merge plan to stdout instead of applying it (only for global mode). --stats and --metrics report the planned groups"))

	key = "stats"
	MergeCmd.Flags().Bool(key, false, util.WrapString("Print value statistics before and after the merge to stderr"))

	key = "metrics"
	MergeCmd.Flags().String(key, "", util.WrapString("Write metrics in Prometheus text format to this file ('-' writes to stdout)"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf := &mergeConfig{
		Mode:        viper.GetString("mode"),
		In:          viper.GetString("in"),
		Out:         viper.GetString("out"),
		PrintPlan:   viper.GetBool("plan"),
		Stats:       viper.GetBool("stats"),
		MetricsPath: viper.GetString("metrics"),
	}

	switch conf.Mode {
	case ModeConsecutive:
		if conf.PrintPlan {
			return errors.New("--plan is only supported in global mode")
		}
	case ModeGlobal:
	default:
		return errors.Newf("invalid mode %s (expected one of: %s, %s)", conf.Mode, ModeConsecutive, ModeGlobal)
	}

	// stdout carries either records or the plan
	if conf.MetricsPath == util.StdStream && (conf.Out == util.StdStream || conf.PrintPlan) {
		return errors.New("--metrics - needs stdout for itself, set --out to a file and do not use --plan")
	}

	var err error
	if conf.Predicate, err = getPredicate(); err != nil {
		return err
	}
	if conf.Absorber, err = getAbsorber(); err != nil {
		return err
	}
	if conf.Codec, err = util.GetCodec(); err != nil {
		return err
	}
	if conf.Map, err = util.GetEngine(); err != nil {
		return err
	}

	*mergeCmdConfig = *conf
	plog.Debugf("merge config: mode=%s engine=%s predicate=%s absorber=%s format=%s",
		conf.Mode, conf.Map.Info().Impl, conf.Predicate.Name, conf.Absorber.Name, conf.Codec.Name())
	return nil
}

// getPredicate returns the configured predicate, expressions take precedence over names
func getPredicate() (strategy.Predicate, error) {
	if expr := viper.GetString("predicate-expr"); expr != "" {
		return strategy.NewExprPredicate(expr)
	}
	return registry.Predicate(viper.GetString("predicate"))
}

// getAbsorber returns the configured absorber, expressions take precedence over names
func getAbsorber() (strategy.Absorber, error) {
	if expr := viper.GetString("absorb-expr"); expr != "" {
		return strategy.NewExprAbsorber(expr)
	}
	return registry.Absorber(viper.GetString("absorb"))
}
