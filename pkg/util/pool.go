package util

import "runtime"

// GetOptimalPoolSize returns the worker count for batch snapshot capture.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Capture is mostly parsing, with a file read per job; twice the core count
// keeps workers busy while others wait on I/O.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
