package orders

import "testing"

func TestCreateLead_FreshIDs(t *testing.T) {
	repo := NewRepository()

	a := repo.CreateLead("Maria", "+13105550100", "maria@example.com", "q-1")
	b := repo.CreateLead("Maria", "+13105550100", "maria@example.com", "q-1")

	if a.LeadID == b.LeadID {
		t.Fatalf("expected distinct lead ids, got %s twice", a.LeadID)
	}
	if repo.CountLeads() != 2 {
		t.Fatalf("expected 2 leads, got %d", repo.CountLeads())
	}

	got, ok := repo.Lead(a.LeadID)
	if !ok || got.Name != "Maria" || got.QuoteID != "q-1" {
		t.Fatalf("unexpected lead: %+v ok=%v", got, ok)
	}
}

func TestCreateOrder_FreshIDs(t *testing.T) {
	repo := NewRepository()

	a := repo.CreateOrder("q-1")
	b := repo.CreateOrder("q-1")

	if a.OrderID == b.OrderID {
		t.Fatalf("expected distinct order ids, got %s twice", a.OrderID)
	}
	if repo.CountOrders() != 2 {
		t.Fatalf("expected 2 orders, got %d", repo.CountOrders())
	}

	got, ok := repo.Order(b.OrderID)
	if !ok || got.QuoteID != "q-1" {
		t.Fatalf("unexpected order: %+v ok=%v", got, ok)
	}
}
