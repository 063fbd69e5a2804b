package check

// CellSettings runs the checks specific to one kind of cell, on top of the
// structural checks every cell gets. For a column of gene symbols that may
// be a pattern match; for a column of averages a numeric range check.
//
// CheckMore appends its sub-failures to dst and returns the extended slice.
// It is only called for cells that are non-empty and free of whitespace and
// encoding problems. cell is only valid for the duration of the call.
type CellSettings interface {
	CheckMore(dst []SubFailure, cell []byte) []SubFailure
}

// CellCheckFunc adapts an ordinary function to CellSettings.
type CellCheckFunc func(dst []SubFailure, cell []byte) []SubFailure

// CheckMore implements CellSettings.
func (f CellCheckFunc) CheckMore(dst []SubFailure, cell []byte) []SubFailure {
	return f(dst, cell)
}

// NoChecks is a CellSettings that adds nothing to the structural checks.
var NoChecks CellSettings = CellCheckFunc(func(dst []SubFailure, _ []byte) []SubFailure {
	return dst
})

// FileSettings selects the CellSettings for each cell of a kind of file.
//
// CellSettingsFor must depend on loc alone for the duration of a pass so
// that re-running the same input gives the same failures. It returns false
// for cells the file is not expected to have.
type FileSettings interface {
	CellSettingsFor(loc Location) (CellSettings, bool)
}

// FileSettingsFunc adapts an ordinary function to FileSettings.
type FileSettingsFunc func(loc Location) (CellSettings, bool)

// CellSettingsFor implements FileSettings.
func (f FileSettingsFunc) CellSettingsFor(loc Location) (CellSettings, bool) {
	return f(loc)
}

// Columns is a FileSettings with fixed checks per column: column i is
// checked by Columns[i], and cells beyond the last entry are unexpected.
type Columns []CellSettings

// CellSettingsFor implements FileSettings.
func (c Columns) CellSettingsFor(loc Location) (CellSettings, bool) {
	if loc.Col >= uint(len(c)) || c[loc.Col] == nil {
		return nil, false
	}
	return c[loc.Col], true
}

// AnyColumn returns a FileSettings that expects every column and checks all
// of them with cs.
func AnyColumn(cs CellSettings) FileSettings {
	return FileSettingsFunc(func(Location) (CellSettings, bool) {
		return cs, true
	})
}
