package model

import "telegram-subscription-shop/internal/domain"

// CatalogKind selects which price table a tier belongs to. The three tables
// share one structure and differ only in their prices.
type CatalogKind string

const (
	CatalogSubscription CatalogKind = "subscription"
	CatalogRegular      CatalogKind = "regular"
	CatalogMember       CatalogKind = "member"
)

// Tier is one purchasable catalog entry.
type Tier struct {
	ID    string
	Label string
	Price string
}

// Catalog is a static, immutable table of priced tiers.
type Catalog struct {
	Kind  CatalogKind
	Title string
	Tiers []Tier
}

// Lookup finds a tier by identifier.
func (c *Catalog) Lookup(id string) (Tier, bool) {
	for _, t := range c.Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

var catalogs = map[CatalogKind]*Catalog{
	CatalogSubscription: {
		Kind:  CatalogSubscription,
		Title: "📦 Subscription Plans",
		Tiers: []Tier{
			{ID: "plan_3m", Label: "$45 for 3 Months", Price: "$45"},
			{ID: "plan_6m", Label: "$72 for 6 Months", Price: "$72"},
			{ID: "plan_8m", Label: "$95 for 8 Months", Price: "$95"},
			{ID: "plan_12m", Label: "$145 for 12 Months", Price: "$145"},
		},
	},
	CatalogRegular: {
		Kind:  CatalogRegular,
		Title: "💰 Regular Price Options",
		Tiers: []Tier{
			{ID: "price_250", Label: "250 Sites $25", Price: "$25"},
			{ID: "price_350", Label: "350 Sites $40", Price: "$40"},
			{ID: "price_550", Label: "550 Sites $50", Price: "$50"},
			{ID: "price_750", Label: "750 Sites $65", Price: "$65"},
			{ID: "price_850", Label: "850 Sites $79", Price: "$79"},
			{ID: "price_1000", Label: "1000 Sites $95", Price: "$95"},
			{ID: "price_1225", Label: "1225 Sites $120", Price: "$120"},
			{ID: "price_1350", Label: "1350 Sites $129", Price: "$129"},
			{ID: "price_1500", Label: "1500 Sites $145", Price: "$145"},
			{ID: "price_1700", Label: "1700 Sites $159", Price: "$159"},
			{ID: "price_1850", Label: "1850 Sites $179", Price: "$179"},
			{ID: "price_2000", Label: "2000 Sites $195", Price: "$195"},
			{ID: "price_2500", Label: "2500 Sites $229", Price: "$229"},
			{ID: "price_3000", Label: "3000 Sites $295", Price: "$295"},
		},
	},
	CatalogMember: {
		Kind:  CatalogMember,
		Title: "👥 Subscription Member Prices",
		Tiers: []Tier{
			{ID: "member_250", Label: "250 Sites $15", Price: "$15"},
			{ID: "member_350", Label: "350 Sites $35", Price: "$35"},
			{ID: "member_550", Label: "550 Sites $45", Price: "$45"},
			{ID: "member_750", Label: "750 Sites $55", Price: "$55"},
			{ID: "member_850", Label: "850 Sites $65", Price: "$65"},
			{ID: "member_1000", Label: "1000 Sites $75", Price: "$75"},
			{ID: "member_1225", Label: "1225 Sites $100", Price: "$100"},
			{ID: "member_1350", Label: "1350 Sites $115", Price: "$115"},
			{ID: "member_1500", Label: "1500 Sites $135", Price: "$135"},
			{ID: "member_1700", Label: "1700 Sites $145", Price: "$145"},
			{ID: "member_1825", Label: "1825 Sites $165", Price: "$165"},
			{ID: "member_2000", Label: "2000 Sites $189", Price: "$189"},
			{ID: "member_2500", Label: "2500 Sites $220", Price: "$220"},
			{ID: "member_3000", Label: "3000 Sites $279", Price: "$279"},
		},
	},
}

// CatalogFor returns the static catalog for a kind.
func CatalogFor(kind CatalogKind) (*Catalog, error) {
	c, ok := catalogs[kind]
	if !ok {
		return nil, domain.ErrUnknownTier
	}
	return c, nil
}

// LookupTier resolves a tier identifier within a kind's table.
func LookupTier(kind CatalogKind, tierID string) (Tier, error) {
	c, err := CatalogFor(kind)
	if err != nil {
		return Tier{}, err
	}
	t, ok := c.Lookup(tierID)
	if !ok {
		return Tier{}, domain.ErrUnknownTier
	}
	return t, nil
}
