package util

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/mapbench/lib/codec"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
	assert.Equal(t, "", WrapString(""))
}

func TestRecordFiles(t *testing.T) {
	records := []codec.Record{{Key: "a", Value: 1.0}, {Key: "b", Value: "x"}}
	c := codec.NewGOBCodec()

	// files
	path := filepath.Join(t.TempDir(), "records.gob")
	require.NoError(t, WriteRecords(path, nil, c, records))
	read, err := ReadRecords(path, nil, c)
	require.NoError(t, err)
	assert.Equal(t, records, read)

	// std streams
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(StdStream, &buf, c, records))
	read, err = ReadRecords(StdStream, &buf, c)
	require.NoError(t, err)
	assert.Equal(t, records, read)

	_, err = ReadRecords(filepath.Join(t.TempDir(), "missing"), nil, c)
	assert.Error(t, err)
}

func TestGetEngineAndCodec(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("engine", "slice")
	m, err := GetEngine()
	require.NoError(t, err)
	assert.Equal(t, omap.ImplSlice, m.Info().Impl)

	viper.Set("engine", "btree")
	viper.Set("btree-degree", 4)
	m, err = GetEngine()
	require.NoError(t, err)
	assert.Equal(t, omap.ImplBTree, m.Info().Impl)

	viper.Set("engine", "hash")
	_, err = GetEngine()
	assert.Error(t, err)

	viper.Set("format", "binary")
	c, err := GetCodec()
	require.NoError(t, err)
	assert.Equal(t, "binary", c.Name())

	viper.Set("format", "yaml")
	_, err = GetCodec()
	assert.Error(t, err)
}
