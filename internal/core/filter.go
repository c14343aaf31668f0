package core

// DateRange is a closed interval over transaction dates, epoch
// milliseconds, inclusive on both ends.
type DateRange struct {
	Start int64
	End   int64
}

// Contains reports whether ms falls inside the interval.
func (r DateRange) Contains(ms int64) bool {
	return ms >= r.Start && ms <= r.End
}

// Filter narrows a transaction listing. A nil or empty slice means the
// corresponding criterion is not applied. An empty Dates slice is
// explicitly "no date filter": a supplied-but-empty list must not be read
// as "match nothing" or "match everything by accident".
type Filter struct {
	Types      []TransactionType
	Categories []string
	Dates      []DateRange
}

// Normalize returns a copy of the filter with type synonyms resolved.
func (f Filter) Normalize() Filter {
	if len(f.Types) == 0 {
		return f
	}
	types := make([]TransactionType, len(f.Types))
	for i, t := range f.Types {
		types[i] = NormalizeType(string(t))
	}
	f.Types = types
	return f
}

// Matches reports whether t passes every supplied criterion. Criteria
// combine with AND across kinds; date ranges combine with OR among
// themselves.
func (f Filter) Matches(t Transaction) bool {
	if len(f.Types) > 0 && !containsType(f.Types, t.Type) {
		return false
	}
	if len(f.Categories) > 0 && !containsString(f.Categories, t.Category) {
		return false
	}
	if len(f.Dates) > 0 {
		inRange := false
		for _, r := range f.Dates {
			if r.Contains(t.Date) {
				inRange = true
				break
			}
		}
		if !inRange {
			return false
		}
	}
	return true
}

// Apply filters txs preserving order.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func containsType(set []TransactionType, t TransactionType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
