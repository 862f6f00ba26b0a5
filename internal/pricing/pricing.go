// Package pricing computes product prices and cart totals.
//
// All functions are pure. Amounts are rounded to two decimal places at the
// point where a percentage is applied, so totals are always exact sums of
// rounded line amounts.
package pricing

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the priced result of a cart.
type Totals struct {
	BeforeDiscount decimal.Decimal `json:"beforeDiscount"`
	Total          decimal.Decimal `json:"total"`
}

// EffectivePrice applies a product's own discount percentage to its list price.
func EffectivePrice(beforeDiscountPrice, discountPercentage decimal.Decimal) decimal.Decimal {
	return percentOff(beforeDiscountPrice, discountPercentage)
}

// LineTotal is the unit price multiplied by the quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Subtotal sums the line totals of a cart.
// It fails with ProductUnavailable when a line references a missing or deleted product.
func Subtotal(lines []model.CartLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		if line.Product == nil || !line.Product.IsActive() {
			return decimal.Zero, model.NewProductUnavailableError(line.ProductID)
		}
		total = total.Add(LineTotal(line.Product.Price, line.Quantity))
	}
	return total, nil
}

// ApplyDiscount reduces a subtotal by a cart discount.
//
// When the discount has a positive cap and the subtotal exceeds it, the cap
// itself is subtracted from the subtotal. Otherwise the percentage applies.
func ApplyDiscount(subtotal decimal.Decimal, discount *model.Discount) decimal.Decimal {
	if discount == nil {
		return subtotal
	}

	if discount.MaxAmount != nil && discount.MaxAmount.IsPositive() && subtotal.GreaterThan(*discount.MaxAmount) {
		return subtotal.Sub(*discount.MaxAmount)
	}

	return percentOff(subtotal, discount.Percentage)
}

// Calculate prices a cart with an optional discount.
func Calculate(lines []model.CartLine, discount *model.Discount) (Totals, error) {
	subtotal, err := Subtotal(lines)
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		BeforeDiscount: subtotal,
		Total:          ApplyDiscount(subtotal, discount),
	}, nil
}

func percentOff(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Sub(percentage)).Div(hundred).Round(2)
}
