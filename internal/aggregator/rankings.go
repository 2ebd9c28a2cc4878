package aggregator

import (
	"strings"
	"time"

	"github.com/chrisdamba/foodspend/internal/models"
)

const (
	maxCuisines = 15
	maxItems    = 20
)

type restaurantAcc struct {
	cuisine     string
	orders      int
	spent       float64
	last        time.Time
	lastOrdered string
}

func buildRestaurants(records []record) []models.RestaurantData {
	g := newGrouper[restaurantAcc]()
	for i := range records {
		r := &records[i]
		a := g.add(r.restaurant)
		if a.orders == 0 {
			a.cuisine = strings.Join(r.cuisines, ", ")
			a.last = r.at
			a.lastOrdered = r.order.OrderTime.String()
		} else if r.dated && r.at.After(a.last) {
			a.last = r.at
			a.lastOrdered = r.order.OrderTime.String()
		}
		a.orders++
		a.spent += r.amount
	}

	return rank(g, func(name string, a *restaurantAcc) models.RestaurantData {
		return models.RestaurantData{
			Name:          name,
			Cuisine:       a.cuisine,
			Orders:        a.orders,
			TotalSpent:    roundMoney(a.spent),
			AvgOrderValue: average(a.spent, a.orders),
			LastOrdered:   a.lastOrdered,
		}
	}, func(a, b models.RestaurantData) bool { return a.TotalSpent > b.TotalSpent }, 0)
}

// buildCuisines counts every order once for each of its cuisine tags and
// splits the order amount evenly between them.
func buildCuisines(records []record) []models.CuisineData {
	g := newGrouper[bucket]()
	for i := range records {
		r := &records[i]
		share := r.amount / float64(len(r.cuisines))
		for _, c := range r.cuisines {
			b := g.add(c)
			b.orders++
			b.amount += share
		}
	}

	return rank(g, func(name string, b *bucket) models.CuisineData {
		return models.CuisineData{Name: name, Orders: b.orders, Amount: roundMoney(b.amount)}
	}, func(a, b models.CuisineData) bool { return a.Orders > b.Orders }, maxCuisines)
}

type itemAcc struct {
	count int
	spent float64
}

func buildItems(records []record) []models.ItemData {
	g := newGrouper[itemAcc]()
	for i := range records {
		for j := range records[i].order.Items {
			item := &records[i].order.Items[j]
			a := g.add(ItemName(item))
			a.count += Quantity(item)
			a.spent += money(item.Total)
		}
	}

	return rank(g, func(name string, a *itemAcc) models.ItemData {
		return models.ItemData{Name: name, Count: a.count, TotalSpent: roundMoney(a.spent)}
	}, func(a, b models.ItemData) bool { return a.Count > b.Count }, maxItems)
}
