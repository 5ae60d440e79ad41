// Package codec reads and writes the record files processed by the mapbench CLI.
// A record file is an ordered list of key/value records with string keys and
// dynamic, JSON-like values (see strategy.Value).
//
// Key Components:
//
//   - ICodec: Interface all codecs implement.
//
//   - jsonCodecImpl: Array of {"key": ..., "value": ...} objects. Human-readable and the
//     default format of the CLI.
//
//   - gobCodecImpl: Go's gob encoding. Preserves Go integer types but is only readable by Go programs.
//
//   - binaryCodecImpl: Compact custom format. Every value is prefixed by a one byte tag,
//     lengths and numbers are stored big-endian. Integers are stored as float64.
//
// Thread Safety:
//
//	All codecs are stateless and safe for concurrent use.
//
// Usage:
//
//	c, err := codec.ByName("binary")
//	data, err := c.Encode(records)
//	records, err = c.Decode(data)
package codec
