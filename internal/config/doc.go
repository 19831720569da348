// Package config loads command-line configuration: named draw profiles from
// YAML files checked against an embedded CUE schema, and environment
// defaults.
//
// A profile file looks like:
//
//	profiles:
//	  classroom:
//	    grid: {rows: 3, cols: 4}
//	    min_pool_size: 3
//	  lottery:
//	    range: {start: 1, end: 49}
//	    decay_factor: 0.8
//	  team:
//	    ids: [3, 7, 11, 19]
package config
