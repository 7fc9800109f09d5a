package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the per-tenant configuration document. One YAML file per tenant
// holds the business profile, pricing rules, inventory and the conversational
// workflow. The engine mutates the inventory section in memory; Save is the
// explicit flush back to disk.
type Settings struct {
	Business  BusinessSettings  `yaml:"business"`
	Pricing   PricingSettings   `yaml:"pricing"`
	Inventory InventorySettings `yaml:"inventory"`
	Telephony TelephonySettings `yaml:"telephony"`
	Workflow  WorkflowSettings  `yaml:"workflow"`
}

// BusinessSettings describes the tenant and its service area.
type BusinessSettings struct {
	Name             string   `yaml:"name"`
	Slug             string   `yaml:"slug"`
	Hours            string   `yaml:"hours"`
	ServiceArea      []string `yaml:"service_area"`
	WarehouseZip     string   `yaml:"warehouse_zip"`
	MinOrderSubtotal float64  `yaml:"min_order_subtotal"`
	TaxRate          float64  `yaml:"tax_rate"`
}

// PricingSettings holds the tenant's pricing rules.
type PricingSettings struct {
	WeekendMultiplier   float64          `yaml:"weekend_multiplier"`
	Discounts           DiscountSettings `yaml:"discounts"`
	SetupMinutesPerItem int              `yaml:"setup_minutes_per_item"`
	StaffHourly         float64          `yaml:"staff_hourly"`
	Delivery            DeliverySettings `yaml:"delivery"`
}

// DiscountSettings holds percentage discounts.
type DiscountSettings struct {
	WeekdayPct float64 `yaml:"weekday_pct"`
}

// DeliverySettings holds the delivery fee model. Bands are checked in
// configured order; the first matching prefix wins.
type DeliverySettings struct {
	BaseFee float64        `yaml:"base_fee"`
	PerMile float64        `yaml:"per_mile"`
	Bands   []DeliveryBand `yaml:"bands"`
}

// DeliveryBand is a flat-fee override for a postal prefix.
type DeliveryBand struct {
	Prefix string  `yaml:"prefix"`
	Fee    float64 `yaml:"fee"`
}

// InventorySettings holds catalog items and date-scoped reservation blocks.
type InventorySettings struct {
	Items  []ItemDef  `yaml:"items"`
	Blocks []BlockDef `yaml:"blocks"`
}

// ItemDef is the on-disk form of a catalog item.
type ItemDef struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	DailyPrice float64 `yaml:"daily_price"`
	Qty        int     `yaml:"qty"`
}

// BlockDef commits inventory for a given date. Multiple blocks for the same
// date and item are additive.
type BlockDef struct {
	Date   string `yaml:"date"`
	ItemID string `yaml:"id"`
	Qty    int    `yaml:"qty"`
}

// TelephonySettings maps inbound DIDs to this tenant.
type TelephonySettings struct {
	DID []string `yaml:"did"`
}

// WorkflowSettings declares the tenant's slot-filling dialog.
type WorkflowSettings struct {
	OpeningGreeting string    `yaml:"opening_greeting"`
	ClosingMessage  string    `yaml:"closing_message"`
	Slots           []SlotDef `yaml:"slots"`
}

// SlotDef is a single conversational field. Required defaults to true when
// omitted from the YAML.
type SlotDef struct {
	Name        string  `yaml:"name"`
	Prompt      string  `yaml:"prompt"`
	Description string  `yaml:"description"`
	Required    *bool   `yaml:"required"`
	Example     string  `yaml:"example"`
}

// IsRequired reports whether the slot blocks dialog completion.
func (s SlotDef) IsRequired() bool {
	return s.Required == nil || *s.Required
}

// LoadSettings reads and validates a tenant settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenant settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse tenant settings %s: %w", path, err)
	}

	if s.Pricing.WeekendMultiplier == 0 {
		s.Pricing.WeekendMultiplier = 1.0
	}

	return &s, nil
}

// Save writes the settings document back to disk.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal tenant settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write tenant settings %s: %w", path, err)
	}
	return nil
}
