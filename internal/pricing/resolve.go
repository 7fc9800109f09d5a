package pricing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"rentalvoice_backend/platform/apperr"
)

// ItemRef is a permissive item reference coming out of a reasoning decision:
// a direct catalog id, an exact name, or free text to fuzzy-match.
type ItemRef struct {
	ID   string
	Name string
	Qty  int
}

// Suggestion is a candidate catalog match surfaced on resolution failure.
type Suggestion struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var punctRe = regexp.MustCompile(`[^\w\s]`)

// canon tokenizes a name for fuzzy matching: lowercase, punctuation stripped,
// naively singularized (trailing 's' dropped when the token is long enough).
func canon(s string) []string {
	s = punctRe.ReplaceAllString(strings.ToLower(s), " ")
	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.HasSuffix(t, "s") && len(t) > 3 {
			t = t[:len(t)-1]
		}
		out = append(out, t)
	}
	return out
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range canon(s) {
		set[t] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}

// minFuzzyScore is the minimum token-set intersection required to accept a
// fuzzy match; one-word coincidences never resolve.
const minFuzzyScore = 2

// ParseItemRefs extracts item references from raw tool arguments. Accepted
// shapes, all seen in live reasoning output:
//
//	{"item": "Resin Folding Chair (White)", "quantity": 50}
//	{"items": [{"name": "white resin chairs", "qty": 50}, {"id": "chair_resin", "qty": 10}]}
//	{"item": "chair_resin", "qty": 50}
func ParseItemRefs(args map[string]any) []ItemRef {
	if args == nil {
		return nil
	}

	if raw, ok := args["items"].([]any); ok {
		refs := make([]ItemRef, 0, len(raw))
		for _, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			refs = append(refs, ItemRef{
				ID:   asString(m["id"]),
				Name: firstString(m["name"], m["item"]),
				Qty:  asQty(m["qty"], m["quantity"]),
			})
		}
		return refs
	}

	if item := asString(args["item"]); item != "" {
		return []ItemRef{{Name: item, Qty: asQty(args["qty"], args["quantity"])}}
	}

	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func firstString(values ...any) string {
	for _, v := range values {
		if s := asString(v); s != "" {
			return s
		}
	}
	return ""
}

// asQty coerces the first usable quantity value; JSON numbers arrive as
// float64, voice transcriptions occasionally as strings.
func asQty(values ...any) int {
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			if n > 0 {
				return int(n)
			}
		case int:
			if n > 0 {
				return n
			}
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && parsed > 0 {
				return parsed
			}
		}
	}
	return 1
}

// ResolveItems maps item references to canonical catalog line items.
// Resolution order per reference, first match wins:
//
//  1. direct id present and valid
//  2. case-insensitive exact name match
//  3. fuzzy token-overlap match (score >= minFuzzyScore; catalog order breaks ties)
//  4. the raw string itself is a catalog id
//
// Anything else fails with an unknown-item error carrying up to 3 suggestions.
// Matching is deterministic for a fixed catalog ordering.
func (e *Engine) ResolveItems(refs []ItemRef) ([]RequestedItem, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	type catalogEntry struct {
		id     string
		name   string
		tokens map[string]struct{}
	}
	entries := make([]catalogEntry, 0, len(e.ids))
	nameToID := make(map[string]string, len(e.ids))
	for _, id := range e.ids {
		item := e.catalog[id]
		entries = append(entries, catalogEntry{id: id, name: item.Name, tokens: tokenSet(item.Name)})
		nameToID[strings.ToLower(item.Name)] = id
	}

	out := make([]RequestedItem, 0, len(refs))
	for _, ref := range refs {
		qty := ref.Qty
		if qty <= 0 {
			qty = 1
		}

		if ref.ID != "" {
			if _, ok := e.catalog[ref.ID]; ok {
				out = append(out, RequestedItem{ID: ref.ID, Qty: qty})
				continue
			}
		}

		name := strings.TrimSpace(ref.Name)
		if name != "" {
			if id, ok := nameToID[strings.ToLower(name)]; ok {
				out = append(out, RequestedItem{ID: id, Qty: qty})
				continue
			}

			qtokens := tokenSet(name)
			bestID, bestScore := "", 0
			for _, entry := range entries {
				if score := overlap(qtokens, entry.tokens); score > bestScore {
					bestScore, bestID = score, entry.id
				}
			}
			if bestID != "" && bestScore >= minFuzzyScore {
				out = append(out, RequestedItem{ID: bestID, Qty: qty})
				continue
			}

			if _, ok := e.catalog[name]; ok {
				out = append(out, RequestedItem{ID: name, Qty: qty})
				continue
			}

			type scored struct {
				Suggestion
				score int
			}
			candidates := make([]scored, 0, len(entries))
			for _, entry := range entries {
				if score := overlap(qtokens, entry.tokens); score > 0 {
					candidates = append(candidates, scored{Suggestion{ID: entry.id, Name: entry.name}, score})
				}
			}
			sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
			if len(candidates) > 3 {
				candidates = candidates[:3]
			}
			suggestions := make([]Suggestion, 0, len(candidates))
			for _, c := range candidates {
				suggestions = append(suggestions, c.Suggestion)
			}

			return nil, apperr.Newf(apperr.KindValidation, "unknown item %q", name).WithDetails(suggestions)
		}

		return nil, apperr.Validation("item reference has neither id nor name")
	}
	return out, nil
}
