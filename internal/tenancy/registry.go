// Package tenancy resolves inbound requests to a tenant and owns the cache
// of per-tenant pricing engines. Engines are created on first use and shared
// by every call for that tenant.
package tenancy

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/platform/apperr"
	"rentalvoice_backend/platform/logger"
)

// Registry maps tenant slugs to lazily loaded pricing engines, and inbound
// DIDs to tenant slugs.
type Registry struct {
	dir string
	log *logger.Logger

	mu     sync.Mutex
	cache  map[string]*pricing.Engine
	didMap map[string]string
}

// NewRegistry scans the tenants directory and builds the DID map. Files that
// fail to parse are skipped with a warning; they surface again as unknown
// tenants at request time.
func NewRegistry(dir string, log *logger.Logger) *Registry {
	r := &Registry{
		dir:    dir,
		log:    log,
		cache:  make(map[string]*pricing.Engine),
		didMap: make(map[string]string),
	}
	r.loadDIDMap()
	return r
}

func (r *Registry) loadDIDMap() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		r.log.Warn("tenants directory not readable", "dir", r.dir, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		settings, err := pricing.LoadSettings(path)
		if err != nil {
			r.log.Warn("skipping unparseable tenant file", "path", path, "error", err)
			continue
		}
		name := settings.Business.Slug
		if name == "" {
			name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		for _, did := range settings.Telephony.DID {
			r.didMap[strings.ReplaceAll(strings.TrimSpace(did), " ", "")] = name
		}
	}
}

// List returns all known tenant slugs, sorted.
func (r *Registry) List() []string {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Resolve picks the tenant for a request: explicit header first, then the
// called-number DID mapping.
func (r *Registry) Resolve(headerValue, didValue string) (string, error) {
	if headerValue != "" {
		return headerValue, nil
	}
	did := strings.ReplaceAll(strings.TrimSpace(didValue), " ", "")
	if did != "" {
		if name, ok := r.didMap[did]; ok {
			return name, nil
		}
		// An unmapped DID still names a tenant file directly in dev setups.
		return did, nil
	}
	return "", apperr.BadRequest("missing tenant: provide the tenant header or a caller DID")
}

// Engine returns the cached engine for a tenant, loading it on first use.
func (r *Registry) Engine(tenant string) (*pricing.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if eng, ok := r.cache[tenant]; ok {
		return eng, nil
	}

	path := filepath.Join(r.dir, tenant+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.Newf(apperr.KindBadRequest, "unknown tenant %q", tenant)
	}
	eng, err := pricing.NewEngine(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load tenant engine", err)
	}
	r.cache[tenant] = eng
	return eng, nil
}
