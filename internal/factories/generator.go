// Package factories generates synthetic order histories shaped like the
// delivery platform's order-history API, for demos and tests.
package factories

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/foodspend/internal/models"
)

const (
	orderTimeLayout = "2006-01-02 15:04:05"
	firstOrderID    = 140000000000
)

// hourWeights is the relative chance of an order in each hour of the day.
var hourWeights = [24]float64{
	1.5, 1, 0.5, 0.2, 0.1, 0.1, 0.2, 0.6, 1.5, 2, 1.5, 2,
	5, 6, 4, 2, 2, 2.5, 3, 5, 7, 6.5, 4, 2.5,
}

var (
	couponCodes    = []string{"WELCOME50", "TRYNEW", "PARTY", "SWIGGYIT", "FLAT100", "BIRYANI60"}
	paymentMethods = []string{"UPI", "Credit Card", "Debit Card", "Wallet", "Cash"}
)

// Generator produces a reproducible order history from a seed.
type Generator struct {
	config      models.GeneratorConfig
	loc         *time.Location
	rng         *rand.Rand
	restaurants []*models.Restaurant
	popularity  []float64 // cumulative
}

func NewGenerator(config models.GeneratorConfig, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	if config.EndDate.IsZero() {
		config.EndDate = time.Now()
	}
	if config.StartDate.IsZero() || !config.StartDate.Before(config.EndDate) {
		config.StartDate = config.EndDate.AddDate(-1, 0, 0)
	}
	if config.Restaurants <= 0 {
		config.Restaurants = 25
	}

	rng := rand.New(rand.NewSource(config.Seed))
	fake := faker.NewWithSeed(rand.NewSource(config.Seed))
	menu := NewMenuItemFactory(rng, config.MenuDishes)
	rf := NewRestaurantFactory(rng, fake)

	cityNames := make([]string, 0, len(cities))
	for c := range cities {
		cityNames = append(cityNames, c)
	}
	sort.Strings(cityNames)
	home := cityNames[rng.Intn(len(cityNames))]

	g := &Generator{config: config, loc: loc, rng: rng}
	total := 0.0
	for i := 0; i < config.Restaurants; i++ {
		g.restaurants = append(g.restaurants, rf.CreateRestaurant(home, menu.Cuisines(), menu))
		// a few favourites take most of the orders
		total += 1 / math.Pow(float64(i+1), 1.1)
		g.popularity = append(g.popularity, total)
	}
	return g
}

func (g *Generator) Restaurants() []*models.Restaurant { return g.restaurants }

// Generate returns config.Orders orders, most recent first, the way the
// platform lists them.
func (g *Generator) Generate() []models.Order {
	n := g.config.Orders
	if n <= 0 {
		return []models.Order{}
	}

	times := make([]time.Time, n)
	for i := range times {
		times[i] = g.orderTime()
	}
	sort.Slice(times, func(i, j int) bool { return times[i].After(times[j]) })

	orders := make([]models.Order, n)
	for i, at := range times {
		orders[i] = g.createOrder(firstOrderID+int64(n-i), at)
	}
	return orders
}

func (g *Generator) orderTime() time.Time {
	start, end := g.config.StartDate.In(g.loc), g.config.EndDate.In(g.loc)
	days := int(end.Sub(start).Hours()/24) + 1
	day := start.AddDate(0, 0, g.rng.Intn(days))

	total := 0.0
	for _, w := range hourWeights {
		total += w
	}
	hour, pick := 0, g.rng.Float64()*total
	for h, w := range hourWeights {
		if pick < w {
			hour = h
			break
		}
		pick -= w
	}

	at := time.Date(day.Year(), day.Month(), day.Day(), hour, g.rng.Intn(60), g.rng.Intn(60), 0, g.loc)
	if at.Before(start) {
		return start
	}
	if at.After(end) {
		return end
	}
	return at
}

func (g *Generator) pickRestaurant() *models.Restaurant {
	pick := g.rng.Float64() * g.popularity[len(g.popularity)-1]
	i := sort.SearchFloat64s(g.popularity, pick)
	if i >= len(g.restaurants) {
		i = len(g.restaurants) - 1
	}
	return g.restaurants[i]
}

func (g *Generator) createOrder(id int64, at time.Time) models.Order {
	r := g.pickRestaurant()
	o := models.Order{
		ID:             models.FlexString(strconv.FormatInt(id, 10)),
		OrderTime:      models.FlexString(at.Format(orderTimeLayout)),
		RestaurantName: models.FlexString(r.Name),
		RestaurantID:   models.FlexString(r.ID),
		RestaurantArea: r.Area,
		RestaurantCity: r.City,
		PaymentMethod:  paymentMethods[g.rng.Intn(len(paymentMethods))],
		DeliveryStatus: "Delivered",
	}

	// both cuisine shapes occur upstream
	if g.rng.Intn(2) == 0 {
		o.RestaurantCuisine = models.CuisineList(r.Cuisines...)
	} else {
		o.RestaurantCuisine = models.CuisineText(strings.Join(r.Cuisines, ","))
	}

	subtotal := 0.0
	if len(r.MenuItems) > 0 {
		lines := 1 + g.rng.Intn(min(4, len(r.MenuItems)))
		for _, i := range g.rng.Perm(len(r.MenuItems))[:lines] {
			item := r.MenuItems[i]
			qty := 1 + g.rng.Intn(3)
			total := item.Price * float64(qty)
			veg := 0.0
			if item.IsVeg {
				veg = 1
			}
			o.Items = append(o.Items, models.OrderItem{
				Name:       models.FlexString(item.Name),
				Quantity:   models.NewAmount(float64(qty)),
				Total:      models.NewAmount(total),
				Subtotal:   models.NewAmount(total),
				FinalPrice: models.NewAmount(item.Price),
				IsVeg:      models.NewAmount(veg),
			})
			subtotal += total
		}
	}

	fee := 0.0
	if subtotal < 399 || g.rng.Intn(3) == 0 {
		fee = float64(20 + g.rng.Intn(9)*5)
	}
	// the fee is reported under one of its upstream names
	switch g.rng.Intn(3) {
	case 0:
		o.DeliveryCharge = models.NewAmount(fee)
	case 1:
		o.DiscountedDeliveryFee = models.NewAmount(fee)
	default:
		o.DeliveryFee = models.NewAmount(fee)
	}

	discount := 0.0
	if g.rng.Float64() < 0.35 {
		discount = math.Round(subtotal * (0.1 + 0.15*g.rng.Float64()))
		o.CouponCode = couponCodes[g.rng.Intn(len(couponCodes))]
		switch g.rng.Intn(3) {
		case 0:
			o.OrderDiscount = models.NewAmount(discount)
		case 1:
			o.CouponDiscount = models.NewAmount(discount)
		default:
			o.Discount = models.NewAmount(discount)
		}
	}

	o.OrderTotal = models.NewAmount(subtotal + fee - discount)
	return o
}
