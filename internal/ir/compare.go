package ir

import "strings"

// Compare orders two values the way SQLite orders them in an ORDER BY:
// NULL sorts before everything, then integers and booleans numerically,
// then strings by byte order (COLLATE BINARY).
//
// ok is false when the values belong to incomparable families (for
// example an int against a string, or any array/object); callers treat that
// as "not equal" for filters and as a tie for sorting.
func Compare(a, b IRValue) (cmp int, ok bool) {
	aNull, bNull := isNull(a), isNull(b)
	switch {
	case aNull && bNull:
		return 0, true
	case aNull:
		return -1, true
	case bNull:
		return 1, true
	}

	if an, aok := numeric(a); aok {
		bn, bok := numeric(b)
		if !bok {
			return 0, false
		}
		switch {
		case an < bn:
			return -1, true
		case an > bn:
			return 1, true
		}
		return 0, true
	}

	as, aok := a.(IRString)
	bs, bok := b.(IRString)
	if aok && bok {
		return strings.Compare(string(as), string(bs)), true
	}
	return 0, false
}

// Equal reports whether a and b are comparable and equal.
// NULL is never equal to anything, including NULL.
func Equal(a, b IRValue) bool {
	if isNull(a) || isNull(b) {
		return false
	}
	c, ok := Compare(a, b)
	return ok && c == 0
}

func isNull(v IRValue) bool {
	switch v.(type) {
	case nil, IRNull:
		return true
	}
	return false
}

// IsNull reports whether v is SQL NULL.
func IsNull(v IRValue) bool {
	return isNull(v)
}

func numeric(v IRValue) (int64, bool) {
	switch val := v.(type) {
	case IRInt:
		return int64(val), true
	case IRBool:
		if val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
