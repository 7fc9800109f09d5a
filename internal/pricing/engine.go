// Package pricing owns a tenant's inventory and computes availability and
// fully itemized price quotes against it.
package pricing

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentalvoice_backend/platform/apperr"
)

// CatalogItem is a rentable inventory item. Identifiers are never reused
// after deletion.
type CatalogItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	DailyPrice float64 `json:"daily_price"`
	Qty        int     `json:"qty"`
}

// RequestedItem is one resolved line of an availability or quote request.
type RequestedItem struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// Shortage is the deficit between requested and available quantity for an
// item on a date.
type Shortage struct {
	ItemID    string `json:"id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// QuoteLine is one priced line item.
type QuoteLine struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Qty  int     `json:"qty"`
	Unit float64 `json:"unit"`
	Line float64 `json:"line"`
}

// PricedQuote is the fully itemized result of a pricing call. All monetary
// fields are rounded to 2 decimals exactly once, at the field's own
// computation boundary. It carries no identity; leads and orders reference
// quotes by an externally supplied quote id.
type PricedQuote struct {
	LineItems   []QuoteLine `json:"line_items"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	LaborFee    float64     `json:"labor_fee"`
	Discounts   float64     `json:"discounts"`
	Tax         float64     `json:"tax"`
	Total       float64     `json:"total"`
	Note        string      `json:"note,omitempty"`
}

// Engine maintains one tenant's inventory and pricing rules. A single RWMutex
// serializes CRUD mutations against concurrent availability/pricing reads.
type Engine struct {
	mu       sync.RWMutex
	path     string
	settings *Settings

	catalog map[string]*CatalogItem
	// ids in insertion order; keeps fuzzy-match tie-breaks deterministic.
	ids    []string
	blocks []BlockDef
}

// NewEngine loads a tenant settings file and builds the engine.
func NewEngine(path string) (*Engine, error) {
	settings, err := LoadSettings(path)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		path:     path,
		settings: settings,
		catalog:  make(map[string]*CatalogItem, len(settings.Inventory.Items)),
		blocks:   settings.Inventory.Blocks,
	}
	for _, def := range settings.Inventory.Items {
		item := &CatalogItem{ID: def.ID, Name: def.Name, DailyPrice: def.DailyPrice, Qty: def.Qty}
		e.catalog[def.ID] = item
		e.ids = append(e.ids, def.ID)
	}
	return e, nil
}

// Settings returns the loaded settings document. The workflow and business
// sections are read-only at runtime.
func (e *Engine) Settings() *Settings {
	return e.settings
}

// Business returns the tenant business profile.
func (e *Engine) Business() BusinessSettings {
	return e.settings.Business
}

// Workflow returns the tenant's declared dialog workflow.
func (e *Engine) Workflow() WorkflowSettings {
	return e.settings.Workflow
}

func errUnknownItem(id string) *apperr.Error {
	return apperr.Newf(apperr.KindValidation, "unknown item id %q", id)
}

// =============================================================================
// Catalog CRUD
// =============================================================================

// ListItems returns catalog items in stable insertion order.
func (e *Engine) ListItems() []CatalogItem {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]CatalogItem, 0, len(e.ids))
	for _, id := range e.ids {
		out = append(out, *e.catalog[id])
	}
	return out
}

// Item looks up a single catalog item by id.
func (e *Engine) Item(id string) (CatalogItem, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	item, ok := e.catalog[id]
	if !ok {
		return CatalogItem{}, false
	}
	return *item, true
}

// AddItem creates a new catalog item with a fresh identifier.
func (e *Engine) AddItem(name string, dailyPrice float64, qty int) CatalogItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := &CatalogItem{ID: uuid.NewString(), Name: name, DailyPrice: dailyPrice, Qty: qty}
	e.catalog[item.ID] = item
	e.ids = append(e.ids, item.ID)
	return *item
}

// UpdateItem patches an existing item; nil fields are left unchanged.
func (e *Engine) UpdateItem(id string, name *string, dailyPrice *float64, qty *int) (CatalogItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.catalog[id]
	if !ok {
		return CatalogItem{}, errUnknownItem(id)
	}
	if name != nil {
		item.Name = *name
	}
	if dailyPrice != nil {
		item.DailyPrice = *dailyPrice
	}
	if qty != nil {
		item.Qty = *qty
	}
	return *item, nil
}

// DeleteItem removes an item from the catalog. Its identifier is never reused.
func (e *Engine) DeleteItem(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.catalog[id]; !ok {
		return errUnknownItem(id)
	}
	delete(e.catalog, id)
	for i, existing := range e.ids {
		if existing == id {
			e.ids = append(e.ids[:i], e.ids[i+1:]...)
			break
		}
	}
	return nil
}

// Save flushes the in-memory catalog back to the tenant settings file.
// CRUD operations never save implicitly; callers decide when to flush.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]ItemDef, 0, len(e.ids))
	for _, id := range e.ids {
		item := e.catalog[id]
		items = append(items, ItemDef{ID: item.ID, Name: item.Name, DailyPrice: item.DailyPrice, Qty: item.Qty})
	}
	e.settings.Inventory.Items = items
	e.settings.Inventory.Blocks = e.blocks
	return e.settings.Save(e.path)
}

// =============================================================================
// Availability
// =============================================================================

// CheckAvailability returns a shortage per requested item whose quantity
// exceeds what remains after that date's reservation blocks. An unknown item
// id fails the whole call.
func (e *Engine) CheckAvailability(date string, requested []RequestedItem) ([]Shortage, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	reserved := make(map[string]int)
	for _, b := range e.blocks {
		if b.Date == date {
			reserved[b.ItemID] += b.Qty
		}
	}

	var shortages []Shortage
	for _, req := range requested {
		item, ok := e.catalog[req.ID]
		if !ok {
			return nil, errUnknownItem(req.ID)
		}
		available := item.Qty - reserved[req.ID]
		if req.Qty > available {
			shortages = append(shortages, Shortage{ItemID: req.ID, Requested: req.Qty, Available: available})
		}
	}
	return shortages, nil
}

// =============================================================================
// Pricing
// =============================================================================

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mondayWeekday returns the day of week with Monday = 0.
func mondayWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// ServiceInArea reports whether a postal code matches any configured
// service-area prefix.
func (e *Engine) ServiceInArea(zip string) bool {
	for _, prefix := range e.settings.Business.ServiceArea {
		p := trimWildcard(prefix)
		if p != "" && len(zip) >= len(p) && zip[:len(p)] == p {
			return true
		}
	}
	return false
}

func trimWildcard(prefix string) string {
	out := make([]byte, 0, len(prefix))
	for i := 0; i < len(prefix); i++ {
		if prefix[i] != '*' {
			out = append(out, prefix[i])
		}
	}
	return string(out)
}

// estimateMiles is a coarse proximity heuristic on 3-digit postal prefixes.
func (e *Engine) estimateMiles(zip string) float64 {
	wh := e.settings.Business.WarehouseZip
	if len(zip) < 3 || len(wh) < 3 {
		return 20.0
	}
	a, b := zip[:3], wh[:3]
	if a == b {
		return 5.0
	}
	an, errA := strconv.Atoi(a)
	bn, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return 20.0
	}
	diff := an - bn
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		return 10.0
	}
	return 20.0
}

// Price computes a fully itemized quote. The result is deterministic given
// the catalog snapshot, reservation blocks, date, postal code and line items.
func (e *Engine) Price(date, zip string, requested []RequestedItem) (*PricedQuote, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.ServiceInArea(zip) {
		return nil, apperr.Newf(apperr.KindValidation, "address outside service area: %s", zip)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "invalid date %q: expected YYYY-MM-DD", date)
	}
	weekday := mondayWeekday(day)

	lines := make([]QuoteLine, 0, len(requested))
	subtotal := 0.0
	totalQty := 0
	for _, req := range requested {
		item, ok := e.catalog[req.ID]
		if !ok {
			return nil, errUnknownItem(req.ID)
		}
		line := item.DailyPrice * float64(req.Qty)
		lines = append(lines, QuoteLine{
			ID:   item.ID,
			Name: item.Name,
			Qty:  req.Qty,
			Unit: item.DailyPrice,
			Line: round2(line),
		})
		subtotal += line
		totalQty += req.Qty
	}

	if weekday >= 5 {
		subtotal *= e.settings.Pricing.WeekendMultiplier
	}

	// Weekday discount gates on the calendar weekday, not the surcharge.
	discount := 0.0
	if subtotal >= e.settings.Business.MinOrderSubtotal && weekday <= 3 {
		discount = round2(subtotal * e.settings.Pricing.Discounts.WeekdayPct)
	}

	setupMinutes := float64(e.settings.Pricing.SetupMinutesPerItem * totalQty)
	laborFee := round2(setupMinutes / 60.0 * e.settings.Pricing.StaffHourly)

	deliveryFee := -1.0
	for _, band := range e.settings.Pricing.Delivery.Bands {
		if band.Prefix != "" && len(zip) >= len(band.Prefix) && zip[:len(band.Prefix)] == band.Prefix {
			deliveryFee = band.Fee
			break
		}
	}
	if deliveryFee < 0 {
		miles := e.estimateMiles(zip)
		deliveryFee = round2(e.settings.Pricing.Delivery.BaseFee + e.settings.Pricing.Delivery.PerMile*miles)
	}

	taxable := math.Max(subtotal-discount, 0) + laborFee
	tax := round2(taxable * e.settings.Business.TaxRate)
	total := round2(taxable + deliveryFee + tax)

	return &PricedQuote{
		LineItems:   lines,
		Subtotal:    round2(subtotal),
		DeliveryFee: deliveryFee,
		LaborFee:    laborFee,
		Discounts:   discount,
		Tax:         tax,
		Total:       total,
	}, nil
}
