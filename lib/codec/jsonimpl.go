package codec

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// NewJSONCodec creates a codec for JSON record files
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements ICodec using json encoding
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string {
	return "json"
}

func (j jsonCodecImpl) Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode json records")
	}
	return append(data, '\n'), nil
}

func (j jsonCodecImpl) Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode json records")
	}
	return records, nil
}
