package codec

import (
	"slices"

	"github.com/ValentinKolb/mapbench/lib/strategy"
	"github.com/cockroachdb/errors"
)

// Record is one key/value pair of a record file
type Record struct {
	Key   string         `json:"key"`
	Value strategy.Value `json:"value"`
}

// ICodec is the interface for all record file formats
type ICodec interface {
	// Name returns the name the codec is registered under (see ByName)
	Name() string
	// Encode serializes the records in the given order
	Encode(records []Record) ([]byte, error)
	// Decode deserializes records, the order of the file is preserved
	Decode(data []byte) ([]Record, error)
}

// ErrUnknownCodec is returned by ByName for unknown names
var ErrUnknownCodec = errors.New("unknown codec")

var codecs = map[string]func() ICodec{
	"json":   NewJSONCodec,
	"gob":    NewGOBCodec,
	"binary": NewBinaryCodec,
}

// ByName returns the codec registered under name
func ByName(name string) (ICodec, error) {
	factory, ok := codecs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCodec, "%q (available: %v)", name, Names())
	}
	return factory(), nil
}

// Names returns the sorted names of all codecs
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
