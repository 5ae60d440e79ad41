package util

import (
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/mapbench/lib/codec"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/ValentinKolb/mapbench/lib/omap/engines/btree"
	"github.com/ValentinKolb/mapbench/lib/omap/engines/slice"
	"github.com/ValentinKolb/mapbench/lib/strategy"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// StdStream is the file name that selects stdin or stdout
	StdStream = "-"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("mapbench")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetCodec creates the record codec based on configuration
func GetCodec() (codec.ICodec, error) {
	return codec.ByName(viper.GetString("format"))
}

// GetEngine creates an empty ordered map based on configuration
func GetEngine() (omap.OrderedMap[string, strategy.Value], error) {
	switch omap.Implementation(viper.GetString("engine")) {
	case omap.ImplBTree:
		return btree.New[string, strategy.Value](&btree.Options{Degree: viper.GetInt("btree-degree")}), nil
	case omap.ImplSlice:
		return slice.New[string, strategy.Value](slice.DefaultOptions()), nil
	default:
		return nil, errors.Newf("invalid engine %s (expected one of: btree, slice)", viper.GetString("engine"))
	}
}

// --------------------------------------------------------------------------
// Record files
// --------------------------------------------------------------------------

// ReadRecords reads and decodes a record file, path "-" reads from stdin
func ReadRecords(path string, stdin io.Reader, c codec.ICodec) ([]codec.Record, error) {
	var data []byte
	var err error
	if path == StdStream {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	records, err := c.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return records, nil
}

// WriteRecords encodes and writes a record file, path "-" writes to stdout
func WriteRecords(path string, stdout io.Writer, c codec.ICodec, records []codec.Record) error {
	data, err := c.Encode(records)
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	if path == StdStream {
		_, err = stdout.Write(data)
	} else {
		err = os.WriteFile(path, data, 0o644)
	}
	return errors.Wrapf(err, "write %s", path)
}
