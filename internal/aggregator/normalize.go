package aggregator

import (
	"math"
	"strings"
	"time"

	"github.com/chrisdamba/foodspend/internal/models"
)

// amountField is one upstream name for a numeric concept.
type amountField struct {
	name  string
	value func(o *models.Order) *models.Amount
}

// Upstream names for the delivery fee, in order of preference.
var deliveryFeeFields = []amountField{
	{"order_delivery_charge", func(o *models.Order) *models.Amount { return o.DeliveryCharge }},
	{"discounted_total_delivery_fee", func(o *models.Order) *models.Amount { return o.DiscountedDeliveryFee }},
	{"delivery_fee", func(o *models.Order) *models.Amount { return o.DeliveryFee }},
}

// Upstream names for the order discount, in order of preference.
var discountFields = []amountField{
	{"order_discount", func(o *models.Order) *models.Amount { return o.OrderDiscount }},
	{"order_discount_effective", func(o *models.Order) *models.Amount { return o.OrderDiscountEffective }},
	{"coupon_discount", func(o *models.Order) *models.Amount { return o.CouponDiscount }},
	{"discount", func(o *models.Order) *models.Amount { return o.Discount }},
}

// timeLayouts are tried in order. Layouts without a zone are read in the
// aggregator's location.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// money coerces an optional amount to a finite, non-negative number.
func money(a *models.Amount) float64 {
	v := a.Float()
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func firstNonZero(o *models.Order, fields []amountField) float64 {
	for _, f := range fields {
		if v := money(f.value(o)); v != 0 {
			return v
		}
	}
	return 0
}

// Amount returns the order total, 0 when missing or not a number.
func Amount(o *models.Order) float64 { return money(o.OrderTotal) }

// DeliveryFee returns the first non-zero delivery fee alias, or 0.
func DeliveryFee(o *models.Order) float64 { return firstNonZero(o, deliveryFeeFields) }

// Discount returns the first non-zero discount alias, or 0.
func Discount(o *models.Order) float64 { return firstNonZero(o, discountFields) }

// Cuisines returns the cuisine tags of the order, ["Other"] when it has none.
func Cuisines(o *models.Order) []string {
	tags := o.RestaurantCuisine.Tags()
	if len(tags) == 0 {
		return []string{models.OtherCuisine}
	}
	return tags
}

// RestaurantName returns the restaurant name used as a grouping key. Names
// are not normalized: "Pizza Hut" and "pizza hut" are distinct restaurants.
func RestaurantName(o *models.Order) string {
	if o.RestaurantName == "" {
		return models.UnknownRestaurant
	}
	return o.RestaurantName.String()
}

func ItemName(i *models.OrderItem) string {
	if i.Name == "" {
		return models.UnknownItem
	}
	return i.Name.String()
}

// Quantity returns the item quantity rounded to a whole number, 1 when the
// upstream value is missing, zero or unparseable.
func Quantity(i *models.OrderItem) int {
	q := int(math.Round(money(i.Quantity)))
	if q <= 0 {
		return 1
	}
	return q
}

// ParseTime reads an upstream timestamp and returns it in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// record is an order with every field the derivers need resolved once.
type record struct {
	order      *models.Order
	at         time.Time
	dated      bool
	amount     float64
	restaurant string
	cuisines   []string
}

func newRecord(o *models.Order, loc *time.Location) record {
	at, ok := ParseTime(o.OrderTime.String(), loc)
	return record{
		order:      o,
		at:         at,
		dated:      ok,
		amount:     Amount(o),
		restaurant: RestaurantName(o),
		cuisines:   Cuisines(o),
	}
}
