package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-site/models"
)

var hundred = decimal.NewFromInt(100)

// PricedItem is a menu item together with the best promotion applying to it.
type PricedItem struct {
	models.MenuItem
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Savings         decimal.Decimal `json:"savings"`
	Promo           *models.Promo   `json:"promo,omitempty"`
}

// IsPromoCurrentlyValid reports whether the promo is active and now falls in
// [StartDate, EndDate], both ends inclusive. Usage limits are not considered.
func IsPromoCurrentlyValid(p models.Promo, now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// WithinUsageLimit is true when the promo has no max uses or has uses left.
func WithinUsageLimit(p models.Promo) bool {
	if p.MaxUses == nil {
		return true
	}
	return p.CurrentUses < *p.MaxUses
}

// PromoCovers reports whether the promo's scope includes the item.
// Unknown scopes and empty id lists match nothing.
func PromoCovers(p models.Promo, item models.MenuItem) bool {
	switch p.AppliesTo {
	case models.ScopeAllItems:
		return true
	case models.ScopeSpecificCategories:
		return containsID(p.CategoryIDs, item.CategoryID)
	case models.ScopeSpecificItems:
		return containsID(p.ItemIDs, item.ID)
	}
	return false
}

// ItemsForPromo returns the catalog items the promo discounts, in catalog order.
func ItemsForPromo(p models.Promo, catalog []models.MenuItem) []models.MenuItem {
	items := make([]models.MenuItem, 0)
	for _, item := range catalog {
		if PromoCovers(p, item) {
			items = append(items, item)
		}
	}
	return items
}

// DiscountedPrice applies the promo's discount to original, never going below zero.
func DiscountedPrice(original decimal.Decimal, p models.Promo) decimal.Decimal {
	var price decimal.Decimal
	switch p.DiscountType {
	case models.DiscountPercentage:
		price = original.Mul(hundred.Sub(p.DiscountValue)).Div(hundred)
	case models.DiscountFixedAmount:
		price = original.Sub(p.DiscountValue)
	default:
		return original
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price.Round(2)
}

// PriceItem picks the applicable promo giving the lowest price. Ties keep
// the earlier promo. Without a match the item keeps its original price.
func PriceItem(item models.MenuItem, promos []models.Promo, now time.Time) PricedItem {
	priced := PricedItem{
		MenuItem:        item,
		OriginalPrice:   item.Price,
		DiscountedPrice: item.Price,
		Savings:         decimal.Zero,
	}
	for i := range promos {
		p := promos[i]
		if !IsPromoCurrentlyValid(p, now) || !WithinUsageLimit(p) || !PromoCovers(p, item) {
			continue
		}
		price := DiscountedPrice(item.Price, p)
		if priced.Promo == nil || price.LessThan(priced.DiscountedPrice) {
			priced.DiscountedPrice = price
			priced.Promo = &promos[i]
		}
	}
	priced.Savings = priced.OriginalPrice.Sub(priced.DiscountedPrice)
	return priced
}

// PriceCatalog prices every item of the catalog.
func PriceCatalog(catalog []models.MenuItem, promos []models.Promo, now time.Time) []PricedItem {
	out := make([]PricedItem, 0, len(catalog))
	for _, item := range catalog {
		out = append(out, PriceItem(item, promos, now))
	}
	return out
}

// CurrentPromos filters promos down to those valid now.
func CurrentPromos(promos []models.Promo, now time.Time) []models.Promo {
	out := make([]models.Promo, 0)
	for _, p := range promos {
		if IsPromoCurrentlyValid(p, now) && WithinUsageLimit(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsPosterEligible reports whether a poster should be shown at now.
// Announcements (no dates) are always eligible while active; a single
// missing bound is treated as open.
func IsPosterEligible(p models.PromoPoster, now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}

// EligiblePosters filters posters down to those shown at now.
func EligiblePosters(posters []models.PromoPoster, now time.Time) []models.PromoPoster {
	out := make([]models.PromoPoster, 0)
	for _, p := range posters {
		if IsPosterEligible(p, now) {
			out = append(out, p)
		}
	}
	return out
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
