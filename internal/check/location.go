package check

import "strconv"

// Location addresses a cell by its 0-based row and column.
type Location struct {
	Row uint64
	Col uint
}

// String renders the location in spreadsheet A1 notation: B100 is column 1,
// row 99.
func (l Location) String() string {
	var buf [40]byte
	b := appendColumnName(buf[:0], l.Col)
	return string(strconv.AppendUint(b, l.Row+1, 10))
}

// ColumnName returns the A1 letters for a 0-based column index: 0 is A,
// 25 is Z, 26 is AA.
func ColumnName(col uint) string {
	return string(appendColumnName(nil, col))
}

// appendColumnName appends the bijective base-26 letters for col. The last
// letter is col%26; every letter before it is a digit in 1..26.
func appendColumnName(dst []byte, col uint) []byte {
	var letters [16]byte
	i := len(letters) - 1
	letters[i] = byte('A' + col%26)
	for n := col / 26; n > 0; n /= 26 {
		n--
		i--
		letters[i] = byte('A' + n%26)
	}
	return append(dst, letters[i:]...)
}
