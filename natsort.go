package comixd

import (
	"sort"
	"strings"
)

// NaturalLess reports whether a orders before b under natural sort: the
// strings are split into alternating runs of digits and non-digits, digit
// runs compare by numeric value and non-digit runs compare
// case-insensitively, so page2.jpg precedes page10.jpg. Ties are broken by
// plain string comparison to keep the order total and deterministic.
func NaturalLess(a, b string) bool {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		ra, rb := a[ia], b[ib]
		da, db := isDigit(ra), isDigit(rb)

		switch {
		case da && db:
			na, ea := digitRun(a, ia)
			nb, eb := digitRun(b, ib)
			if c := compareNumeric(na, nb); c != 0 {
				return c < 0
			}
			ia, ib = ea, eb
		case da != db:
			// A digit run sorts before a non-digit run at the same position.
			return da
		default:
			ca := lowerByte(ra)
			cb := lowerByte(rb)
			if ca != cb {
				return ca < cb
			}
			ia++
			ib++
		}
	}
	if len(a)-ia != len(b)-ib {
		return len(a)-ia < len(b)-ib
	}
	return a < b
}

// compareNumeric compares two digit runs by value without converting to an
// integer, so arbitrarily long runs cannot overflow. Leading zeros are
// insignificant for the value but shorter raw runs win ties ("2" < "02"
// falls through to the final string comparison in NaturalLess).
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func digitRun(s string, start int) (run string, end int) {
	end = start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return s[start:end], end
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// SortEntries orders a listing deterministically: directories first, then
// files, natural order by name within each group. Re-listing an unchanged
// directory always yields identical output regardless of the underlying
// directory iteration order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].Kind == KindDirectory
		dj := entries[j].Kind == KindDirectory
		if di != dj {
			return di
		}
		return NaturalLess(entries[i].Name, entries[j].Name)
	})
}
