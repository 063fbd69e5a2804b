// Package check validates tab-separated files cell by cell.
//
// A validation pass reads records from a byte stream, runs the structural
// cell checks (emptiness, then whitespace and encoding) on every cell and,
// for clean cells, the column-specific check supplied through
// [FileSettings]. Violations are produced lazily as [Failure] values:
//
//	stream, err := check.FileChecks(path, settings, check.Options{})
//	if err != nil {
//	    return err // file could not be opened
//	}
//	defer stream.Close()
//
//	for failure := range stream.Failures() {
//	    fmt.Println(failure.PlaintextMessage())
//	}
//
// # Ordering
//
// Failures arrive in the order they are discovered: row-major, left to
// right within a record. A cell yields at most one [CellFailure], carrying
// every sub-failure of the first check category that complained.
//
// # Resources
//
// The pass holds no more than the current record in memory. The underlying
// reader is closed exactly once, when the range loop ends for any reason
// or when [Stream.Close] is called, whichever happens first.
package check
