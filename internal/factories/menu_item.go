package factories

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/foodspend/internal/models"
)

// defaultDishes is the menu used when no dishes file is configured.
var defaultDishes = map[string][]string{
	"North Indian":  {"Butter Chicken", "Dal Makhani", "Paneer Butter Masala", "Butter Naan", "Chole Bhature", "Kadai Paneer"},
	"South Indian":  {"Masala Dosa", "Idli Vada", "Rava Dosa", "Filter Coffee", "Pongal", "Onion Uttapam"},
	"Biryani":       {"Chicken Biryani", "Mutton Biryani", "Veg Biryani", "Egg Biryani", "Chicken 65"},
	"Chinese":       {"Veg Hakka Noodles", "Chilli Chicken", "Veg Manchurian", "Schezwan Fried Rice", "Spring Rolls"},
	"Pizzas":        {"Margherita", "Farmhouse", "Pepperoni", "Paneer Tikka Pizza", "Garlic Breadsticks"},
	"Burgers":       {"Classic Veg Burger", "Chicken Whopper", "Crispy Chicken Burger", "Peri Peri Fries"},
	"Desserts":      {"Gulab Jamun", "Chocolate Brownie", "Rasmalai", "Death By Chocolate", "Kulfi"},
	"Beverages":     {"Cold Coffee", "Mango Lassi", "Masala Chai", "Fresh Lime Soda"},
	"Street Food":   {"Pav Bhaji", "Vada Pav", "Pani Puri", "Samosa", "Kathi Roll"},
	"Kerala":        {"Appam with Stew", "Malabar Parotta", "Kerala Fish Curry", "Beef Fry"},
	"Healthy Food":  {"Quinoa Salad", "Grilled Chicken Bowl", "Fruit Bowl", "Sprouts Chaat"},
	"Italian":       {"Penne Arrabbiata", "Spaghetti Aglio Olio", "Lasagna", "Tiramisu"},
	"Fast Food":     {"Chicken Nuggets", "French Fries", "Veg Wrap", "Hot Dog"},
	"Andhra":        {"Gongura Chicken", "Andhra Meals", "Pesarattu", "Chicken Fry Piece Biryani"},
	"Continental":   {"Fish and Chips", "Chicken Steak", "Mushroom Soup", "Caesar Salad"},
	"Mughlai":       {"Mutton Rogan Josh", "Chicken Seekh Kebab", "Rumali Roti", "Shahi Tukda"},
	"Bakery":        {"Blueberry Cheesecake", "Chocolate Truffle Cake", "Croissant", "Red Velvet Pastry"},
	"Rolls & Wraps": {"Chicken Tikka Roll", "Paneer Kathi Roll", "Egg Roll"},
}

// nonVegWords mark dishes that contain meat, fish or egg.
var nonVegWords = []string{"Chicken", "Mutton", "Fish", "Egg", "Beef", "Pepperoni"}

type MenuItemFactory struct {
	rng    *rand.Rand
	dishes map[string][]string
}

// NewMenuItemFactory groups the configured dishes by cuisine, falling back to
// the built-in menu.
func NewMenuItemFactory(rng *rand.Rand, menuDishes []models.MenuDish) *MenuItemFactory {
	dishes := defaultDishes
	if len(menuDishes) > 0 {
		dishes = make(map[string][]string)
		for _, d := range menuDishes {
			dishes[d.Cuisine] = append(dishes[d.Cuisine], d.Name)
		}
	}
	return &MenuItemFactory{rng: rng, dishes: dishes}
}

// Cuisines returns the known cuisines in a stable order.
func (mf *MenuItemFactory) Cuisines() []string {
	cuisines := make([]string, 0, len(mf.dishes))
	for c := range mf.dishes {
		cuisines = append(cuisines, c)
	}
	sort.Strings(cuisines)
	return cuisines
}

func (mf *MenuItemFactory) CreateMenuItem(restaurant *models.Restaurant, cuisine, name string) models.MenuItem {
	base := 80 + mf.rng.Float64()*220
	price := math.Round(base*(1+0.35*float64(restaurant.PriceLevel-1))) // whole rupees
	return models.MenuItem{
		ID:           cuid.New(),
		RestaurantID: restaurant.ID,
		Name:         name,
		Price:        price,
		Category:     cuisine,
		IsVeg:        isVeg(name),
	}
}

// CreateMenu builds the menu of a restaurant from the dishes of its cuisines.
func (mf *MenuItemFactory) CreateMenu(restaurant *models.Restaurant) []models.MenuItem {
	var menu []models.MenuItem
	seen := make(map[string]bool)
	for _, cuisine := range restaurant.Cuisines {
		for _, name := range mf.dishes[cuisine] {
			if seen[name] {
				continue
			}
			seen[name] = true
			menu = append(menu, mf.CreateMenuItem(restaurant, cuisine, name))
		}
	}
	return menu
}

func isVeg(name string) bool {
	for _, w := range nonVegWords {
		if strings.Contains(name, w) {
			return false
		}
	}
	return true
}
