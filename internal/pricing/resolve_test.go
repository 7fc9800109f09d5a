package pricing

import (
	"errors"
	"testing"

	"rentalvoice_backend/platform/apperr"
)

func TestParseItemRefs_Shapes(t *testing.T) {
	refs := ParseItemRefs(map[string]any{
		"items": []any{
			map[string]any{"id": "chair_white_resin", "qty": float64(50)},
			map[string]any{"name": "round tables", "quantity": "3"},
		},
	})
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].ID != "chair_white_resin" || refs[0].Qty != 50 {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Name != "round tables" || refs[1].Qty != 3 {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}

	refs = ParseItemRefs(map[string]any{"item": "white chairs", "quantity": float64(20)})
	if len(refs) != 1 || refs[0].Name != "white chairs" || refs[0].Qty != 20 {
		t.Fatalf("unexpected single-item ref: %+v", refs)
	}

	if refs := ParseItemRefs(nil); refs != nil {
		t.Fatalf("expected nil for nil args, got %+v", refs)
	}
}

func TestParseItemRefs_QuantityDefaultsToOne(t *testing.T) {
	refs := ParseItemRefs(map[string]any{"item": "tent"})
	if len(refs) != 1 || refs[0].Qty != 1 {
		t.Fatalf("expected default qty 1, got %+v", refs)
	}
}

func TestResolveItems_ExactID(t *testing.T) {
	eng := newTestEngine(t)

	items, err := eng.ResolveItems([]ItemRef{{ID: "chair_white_resin", Qty: 5}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(items) != 1 || items[0].ID != "chair_white_resin" || items[0].Qty != 5 {
		t.Fatalf("unexpected resolution: %+v", items)
	}
}

func TestResolveItems_ExactNameCaseInsensitive(t *testing.T) {
	eng := newTestEngine(t)

	items, err := eng.ResolveItems([]ItemRef{{Name: "resin folding chair (white)", Qty: 2}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if items[0].ID != "chair_white_resin" {
		t.Fatalf("expected exact name match, got %+v", items)
	}
}

func TestResolveItems_FuzzyMatch(t *testing.T) {
	eng := newTestEngine(t)

	// "white resin chairs" shares the tokens "white", "resin" and "chair"
	// with "Resin Folding Chair (White)".
	items, err := eng.ResolveItems([]ItemRef{{Name: "white resin chairs", Qty: 100}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if items[0].ID != "chair_white_resin" || items[0].Qty != 100 {
		t.Fatalf("expected fuzzy match to chairs, got %+v", items)
	}
}

func TestResolveItems_SingleTokenNeverResolves(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.ResolveItems([]ItemRef{{Name: "chairs", Qty: 10}})
	if err == nil {
		t.Fatal("expected one-word overlap to fail")
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperr, got %T", err)
	}
	if appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", appErr.Kind)
	}
	suggestions, ok := appErr.Details.([]Suggestion)
	if !ok || len(suggestions) == 0 {
		t.Fatalf("expected suggestions in details, got %+v", appErr.Details)
	}
	if suggestions[0].ID != "chair_white_resin" {
		t.Fatalf("expected chair suggested first, got %+v", suggestions)
	}
}

func TestResolveItems_RawStringAsID(t *testing.T) {
	eng := newTestEngine(t)

	items, err := eng.ResolveItems([]ItemRef{{Name: "table_round_60", Qty: 4}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if items[0].ID != "table_round_60" {
		t.Fatalf("expected raw id fallback, got %+v", items)
	}
}

func TestResolveItems_NoSuggestionsForNoOverlap(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.ResolveItems([]ItemRef{{Name: "bouncy castle", Qty: 1}})
	if err == nil {
		t.Fatal("expected unknown item error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperr, got %T", err)
	}
	suggestions, _ := appErr.Details.([]Suggestion)
	if len(suggestions) != 0 {
		t.Fatalf("expected no zero-score suggestions, got %+v", suggestions)
	}
}

func TestResolveItems_MissingReference(t *testing.T) {
	eng := newTestEngine(t)

	if _, err := eng.ResolveItems([]ItemRef{{Qty: 2}}); err == nil {
		t.Fatal("expected error for ref without id or name")
	}
}
