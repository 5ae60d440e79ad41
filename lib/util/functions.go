package util

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// HashString generates a hash value for a string with a seed
// This function uses the FNV-1a hash algorithm, which is fast and has good distribution
func HashString(s string, seed uint64) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	hash := uint64(offset64) ^ seed

	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}

	return hash
}

// Fingerprint hashes a sequence of keys. The result depends on the order of the keys,
// two maps with equal key sets have the same fingerprint.
func Fingerprint(keys []string) uint64 {
	var hash uint64
	for _, k := range keys {
		// the length separates "ab","c" from "a","bc"
		hash = HashString(k, hash^uint64(len(k)))
	}
	return hash
}
