// Package util provides small helpers used to describe merge results.
//
// The package contains:
//   - statistics: Summary statistics of numeric values and of group size distributions
//   - functions: Hash functions used to fingerprint the key sequence of a map
//
// This package is used by the mapbench CLI to report on a merge (--stats) and
// to compare the output of different engines without diffing files.
package util
