// Package directory holds the static fund reference table and its fuzzy
// search index. An Index is an immutable snapshot built once from the fund
// list; queries do no I/O.
package directory

import (
	"strings"

	"FundPulse/internal/model"
)

// Search limit bounds.
const (
	MinSearchLimit = 1
	MaxSearchLimit = 20
)

// Index is an immutable directory snapshot.
type Index struct {
	funds  []model.Fund
	byCode map[string]int
}

// New builds an index from the fund table, preserving insertion order.
// Later duplicates of a code are dropped.
func New(funds []model.Fund) *Index {
	idx := &Index{byCode: make(map[string]int, len(funds))}
	for _, f := range funds {
		if f.Code == "" {
			continue
		}
		if _, dup := idx.byCode[f.Code]; dup {
			continue
		}
		idx.byCode[f.Code] = len(idx.funds)
		idx.funds = append(idx.funds, f)
	}
	return idx
}

// Len returns the number of funds in the snapshot.
func (x *Index) Len() int { return len(x.funds) }

// Lookup finds a fund by exact code.
func (x *Index) Lookup(code string) (model.Fund, bool) {
	i, ok := x.byCode[strings.TrimSpace(code)]
	if !ok {
		return model.Fund{}, false
	}
	return x.funds[i], true
}

// Search matches funds by code, name, or phonetic key. Priority, highest
// first: exact code, code prefix, name substring, phonetic prefix/substring.
// Ties within a tier keep directory insertion order. Keywords shorter than
// 2 characters return nothing, except a single character that matches a
// fund's leading phonetic initial, so one keystroke can land on a fund.
func (x *Index) Search(keyword string, limit int) []model.Fund {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}
	if limit < MinSearchLimit {
		limit = MinSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	if len([]rune(keyword)) < 2 {
		return x.searchPhoneticInitial(strings.ToUpper(keyword), limit)
	}

	lower := strings.ToLower(keyword)
	upper := strings.ToUpper(keyword)

	var out []model.Fund
	seen := make(map[string]bool)
	add := func(f model.Fund) bool {
		if seen[f.Code] {
			return len(out) < limit
		}
		seen[f.Code] = true
		out = append(out, f)
		return len(out) < limit
	}

	// Tier 1: exact code.
	if f, ok := x.Lookup(keyword); ok {
		if !add(f) {
			return out
		}
	}
	// Tier 2: code prefix.
	for _, f := range x.funds {
		if strings.HasPrefix(f.Code, keyword) {
			if !add(f) {
				return out
			}
		}
	}
	// Tier 3: name substring.
	for _, f := range x.funds {
		if strings.Contains(strings.ToLower(f.Name), lower) {
			if !add(f) {
				return out
			}
		}
	}
	// Tier 4: phonetic prefix or substring.
	for _, f := range x.funds {
		key := strings.ToUpper(f.PhoneticKey)
		if key == "" {
			continue
		}
		if strings.HasPrefix(key, upper) || strings.Contains(key, upper) {
			if !add(f) {
				return out
			}
		}
	}
	return out
}

func (x *Index) searchPhoneticInitial(initial string, limit int) []model.Fund {
	var out []model.Fund
	for _, f := range x.funds {
		if f.PhoneticKey == "" {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(f.PhoneticKey), initial) {
			out = append(out, f)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
