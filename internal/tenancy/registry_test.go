package tenancy

import (
	"os"
	"path/filepath"
	"testing"

	"rentalvoice_backend/platform/apperr"
	"rentalvoice_backend/platform/logger"
)

const tenantYAML = `business:
  name: Sunshine Party Rentals
  slug: sunshine_rentals
  service_area:
    - "900*"
telephony:
  did:
    - "+13105550100"
inventory:
  items:
    - id: chair
      name: Folding Chair
      daily_price: 2
      qty: 10
`

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sunshine_rentals.yaml"), []byte(tenantYAML), 0o644); err != nil {
		t.Fatalf("write tenant: %v", err)
	}
	return NewRegistry(dir, logger.New("test")), dir
}

func TestList(t *testing.T) {
	reg, _ := newTestRegistry(t)

	names := reg.List()
	if len(names) != 1 || names[0] != "sunshine_rentals" {
		t.Fatalf("unexpected tenants: %v", names)
	}
}

func TestResolve_HeaderWins(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tenant, err := reg.Resolve("other_tenant", "+13105550100")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tenant != "other_tenant" {
		t.Fatalf("expected header to win, got %q", tenant)
	}
}

func TestResolve_DIDMapping(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tenant, err := reg.Resolve("", "+1 310 555 0100")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if tenant != "sunshine_rentals" {
		t.Fatalf("expected DID mapping, got %q", tenant)
	}
}

func TestResolve_MissingTenant(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Resolve("", "")
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestEngine_CachedAcrossCalls(t *testing.T) {
	reg, _ := newTestRegistry(t)

	first, err := reg.Engine("sunshine_rentals")
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	second, err := reg.Engine("sunshine_rentals")
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached engine instance")
	}
}

func TestEngine_UnknownTenant(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Engine("nope")
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request for unknown tenant, got %v", err)
	}
}
