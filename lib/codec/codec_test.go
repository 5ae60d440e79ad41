package codec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() ICodec{
	"JSON":   NewJSONCodec,
	"GOB":    NewGOBCodec,
	"Binary": NewBinaryCodec,
}

// testRecords creates records covering all value kinds
func testRecords() []Record {
	return []Record{
		{Key: "a", Value: 1.0},
		{Key: "b", Value: -2.5},
		{Key: "c", Value: "text"},
		{Key: "d", Value: true},
		{Key: "e", Value: false},
		{Key: "f", Value: nil},
		{Key: "g", Value: []any{1.0, "x", nil, []any{2.0}}},
		{Key: "h", Value: map[string]any{"n": 3.0, "s": "y", "l": []any{true}}},
		{Key: "", Value: "empty key"},
		{Key: "ünïcode", Value: "välue"},
	}
}

// TestCodecRoundTrip tests that records can be encoded and decoded without changes
func TestCodecRoundTrip(t *testing.T) {
	records := testRecords()

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			data, err := c.Encode(records)
			if err != nil {
				t.Fatalf("Failed to encode records: %v", err)
			}

			result, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Failed to decode records: %v", err)
			}

			if !reflect.DeepEqual(records, result) {
				t.Errorf("Records don't match after round trip:\nOriginal: %+v\nResult: %+v", records, result)
			}
		})
	}
}

// TestCodecEmpty tests encoding of an empty record list
func TestCodecEmpty(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			data, err := c.Encode(nil)
			if err != nil {
				t.Fatalf("Failed to encode empty records: %v", err)
			}

			result, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Failed to decode empty records: %v", err)
			}
			if len(result) != 0 {
				t.Errorf("Expected no records, got %d", len(result))
			}
		})
	}
}

// TestCodecIntegers tests that integer values survive encoding as numbers
func TestCodecIntegers(t *testing.T) {
	records := []Record{{Key: "i", Value: 42}, {Key: "l", Value: []any{int64(7)}}}

	for _, name := range []string{"JSON", "Binary"} {
		t.Run(name, func(t *testing.T) {
			c := testCodecs[name]()

			data, err := c.Encode(records)
			if err != nil {
				t.Fatalf("Failed to encode records: %v", err)
			}
			result, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Failed to decode records: %v", err)
			}

			if result[0].Value != 42.0 {
				t.Errorf("Expected 42.0, got %#v", result[0].Value)
			}
			if !reflect.DeepEqual(result[1].Value, []any{7.0}) {
				t.Errorf("Expected [7.0], got %#v", result[1].Value)
			}
		})
	}
}

// TestCodecCorruptData tests that corrupt input is rejected
func TestCodecCorruptData(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			data, err := c.Encode(testRecords())
			if err != nil {
				t.Fatalf("Failed to encode records: %v", err)
			}

			if _, err := c.Decode(data[:len(data)/2]); err == nil {
				t.Errorf("Expected an error for truncated data")
			}
		})
	}
}

// TestBinaryFormat tests details of the binary format
func TestBinaryFormat(t *testing.T) {
	c := NewBinaryCodec()

	data, err := c.Encode([]Record{{Key: "k", Value: true}})
	if err != nil {
		t.Fatalf("Failed to encode record: %v", err)
	}
	expected := []byte{0, 0, 0, 1, 0, 0, 0, 1, 'k', tagTrue}
	if !reflect.DeepEqual(data, expected) {
		t.Errorf("Unexpected encoding: %v, expected %v", data, expected)
	}

	if _, err := c.Decode(append(data, 0)); err == nil || !strings.Contains(err.Error(), "trailing") {
		t.Errorf("Expected a trailing bytes error, got %v", err)
	}

	unknownTag := []byte{0, 0, 0, 1, 0, 0, 0, 0, 99}
	if _, err := c.Decode(unknownTag); err == nil || !strings.Contains(err.Error(), "unknown value tag 99") {
		t.Errorf("Expected an unknown tag error, got %v", err)
	}

	// a huge announced count must not be allocated up front
	hugeCount := []byte{0xff, 0xff, 0xff, 0xff}
	if _, err := c.Decode(hugeCount); err == nil {
		t.Errorf("Expected an error for missing records")
	}

	if _, err := c.Encode([]Record{{Key: "x", Value: struct{}{}}}); err == nil {
		t.Errorf("Expected an error for an unsupported value type")
	}
}

// TestJSONFormat tests that the json codec writes an array of key/value objects
func TestJSONFormat(t *testing.T) {
	data, err := NewJSONCodec().Encode([]Record{{Key: "k", Value: 1.0}})
	if err != nil {
		t.Fatalf("Failed to encode record: %v", err)
	}

	compact := strings.Join(strings.Fields(string(data)), "")
	if compact != `[{"key":"k","value":1}]` {
		t.Errorf("Unexpected json: %s", data)
	}
}

// TestByName tests the codec lookup
func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, err := ByName(name)
		if err != nil {
			t.Errorf("Failed to get codec %s: %v", name, err)
			continue
		}
		if c.Name() != name {
			t.Errorf("Codec %s reports name %s", name, c.Name())
		}
	}

	if _, err := ByName("xml"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Expected ErrUnknownCodec, got %v", err)
	}
}
