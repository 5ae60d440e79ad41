package codec

import (
	"encoding/binary"
	"maps"
	"math"
	"slices"

	"github.com/ValentinKolb/mapbench/lib/strategy"
	"github.com/cockroachdb/errors"
)

// NewBinaryCodec creates a codec using a compact custom binary format
func NewBinaryCodec() ICodec {
	return &binaryCodecImpl{}
}

// binaryCodecImpl implements ICodec using a custom binary format:
//
//	file   = count:u32 record*
//	record = keyLen:u32 key value
//	value  = tag:u8 payload
type binaryCodecImpl struct {
}

// Value tags
const (
	tagNil    byte = 0
	tagFalse  byte = 1
	tagTrue   byte = 2
	tagNumber byte = 3 // float64 bits as u64
	tagString byte = 4 // len:u32 bytes
	tagList   byte = 5 // count:u32 value*
	tagObject byte = 6 // count:u32 (keyLen:u32 key value)*, keys ascending
)

// maxDepth limits the nesting of lists and objects
const maxDepth = 64

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b binaryCodecImpl) Name() string {
	return "binary"
}

func (b binaryCodecImpl) Encode(records []Record) ([]byte, error) {
	buf := make([]byte, 0, 4+len(records)*16)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(records)))

	for i, r := range records {
		buf = appendString(buf, r.Key)

		var err error
		buf, err = appendValue(buf, r.Value, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "encode record %d (key %q)", i, r.Key)
		}
	}

	return buf, nil
}

func (b binaryCodecImpl) Decode(data []byte) ([]Record, error) {
	r := &reader{data: data}

	count, err := r.uint32("record count")
	if err != nil {
		return nil, err
	}

	// every record needs at least 5 bytes (key length + value tag)
	records := make([]Record, 0, min(int(count), r.remaining()/5))
	for i := 0; i < int(count); i++ {
		key, err := r.string("key")
		if err != nil {
			return nil, errors.Wrapf(err, "decode record %d", i)
		}
		value, err := r.value(0)
		if err != nil {
			return nil, errors.Wrapf(err, "decode record %d (key %q)", i, key)
		}
		records = append(records, Record{Key: key, Value: value})
	}

	if r.remaining() != 0 {
		return nil, errors.Newf("%d unexpected trailing bytes", r.remaining())
	}
	return records, nil
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendValue(buf []byte, v strategy.Value, depth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, errors.Newf("values nested deeper than %d levels", maxDepth)
	}

	switch t := strategy.Normalize(v).(type) {
	case nil:
		return append(buf, tagNil), nil
	case bool:
		if t {
			return append(buf, tagTrue), nil
		}
		return append(buf, tagFalse), nil
	case float64:
		buf = append(buf, tagNumber)
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(t)), nil
	case string:
		return appendString(append(buf, tagString), t), nil
	case []any:
		buf = append(buf, tagList)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(t)))
		var err error
		for _, e := range t {
			if buf, err = appendValue(buf, e, depth+1); err != nil {
				return nil, err
			}
		}
		return buf, nil
	case map[string]any:
		buf = append(buf, tagObject)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(t)))
		var err error
		for _, k := range slices.Sorted(maps.Keys(t)) {
			buf = appendString(buf, k)
			if buf, err = appendValue(buf, t[k], depth+1); err != nil {
				return nil, err
			}
		}
		return buf, nil
	default:
		return nil, errors.Newf("unsupported value type %T", v)
	}
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// reader reads values from a byte slice
type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

// take returns the next n bytes
func (r *reader) take(n int, what string) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, errors.Newf("data too short for %s", what)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) uint32(what string) (uint32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) string(what string) (string, error) {
	n, err := r.uint32(what + " length")
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n), what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) value(depth int) (strategy.Value, error) {
	if depth > maxDepth {
		return nil, errors.Newf("values nested deeper than %d levels", maxDepth)
	}

	tag, err := r.take(1, "value tag")
	if err != nil {
		return nil, err
	}

	switch tag[0] {
	case tagNil:
		return nil, nil
	case tagFalse:
		return false, nil
	case tagTrue:
		return true, nil
	case tagNumber:
		b, err := r.take(8, "number")
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case tagString:
		return r.string("string")
	case tagList:
		n, err := r.uint32("list length")
		if err != nil {
			return nil, err
		}
		list := make([]any, 0, min(int(n), r.remaining()))
		for i := 0; i < int(n); i++ {
			e, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			list = append(list, e)
		}
		return list, nil
	case tagObject:
		n, err := r.uint32("object size")
		if err != nil {
			return nil, err
		}
		obj := make(map[string]any, min(int(n), r.remaining()/5))
		for i := 0; i < int(n); i++ {
			k, err := r.string("object key")
			if err != nil {
				return nil, err
			}
			e, err := r.value(depth + 1)
			if err != nil {
				return nil, err
			}
			obj[k] = e
		}
		return obj, nil
	default:
		return nil, errors.Newf("unknown value tag %d", tag[0])
	}
}
