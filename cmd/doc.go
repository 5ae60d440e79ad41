// Package cmd implements the command-line interface of mapbench. It provides
// commands to merge record files with the algorithms of the merge package and
// to inspect the available merge strategies.
//
// The package is organized into several subpackages:
//
//   - merge: The merge command (consecutive and global merges, plans, statistics, metrics)
//   - strategies: Lists the registered predicates and absorbers
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set via environment variables (MAPBENCH_<FLAG>, e.g.
// MAPBENCH_LOG_LEVEL=debug) or .env files in the working directory.
//
// See mapbench -help for a list of all commands.
package cmd
