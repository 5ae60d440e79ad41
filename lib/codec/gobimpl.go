package codec

import (
	"bytes"
	"encoding/gob"

	"github.com/cockroachdb/errors"
)

func init() {
	// dynamic container types must be known to gob to be sent as interface values
	gob.Register([]any{})
	gob.Register(map[string]any{})
}

// NewGOBCodec creates a codec using Go's binary gob format
func NewGOBCodec() ICodec {
	return &gobCodecImpl{}
}

// gobCodecImpl implements ICodec using gob encoding
type gobCodecImpl struct {
}

// gobFile is the top level value of a gob record file
type gobFile struct {
	Records []Record
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g gobCodecImpl) Name() string {
	return "gob"
}

func (g gobCodecImpl) Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(gobFile{Records: records}); err != nil {
		return nil, errors.Wrap(err, "encode gob records")
	}
	return buf.Bytes(), nil
}

func (g gobCodecImpl) Decode(data []byte) ([]Record, error) {
	var file gobFile
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode gob records")
	}
	return file.Records, nil
}
