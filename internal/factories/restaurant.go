package factories

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/foodspend/internal/models"
)

var cities = map[string][]string{
	"Bangalore": {"Koramangala", "Indiranagar", "HSR Layout", "Jayanagar", "Whitefield", "BTM Layout"},
	"Mumbai":    {"Bandra West", "Andheri East", "Powai", "Lower Parel", "Colaba"},
	"Hyderabad": {"Gachibowli", "Banjara Hills", "Madhapur", "Kondapur"},
	"Chennai":   {"T Nagar", "Adyar", "Velachery", "Anna Nagar"},
	"Delhi":     {"Connaught Place", "Hauz Khas", "Saket", "Lajpat Nagar"},
}

var nameSuffixes = []string{"Kitchen", "Cafe", "Express", "House", "Corner", "Bhavan", "Dhaba", "Foods"}

type RestaurantFactory struct {
	rng   *rand.Rand
	fake  faker.Faker
	names map[string]bool
}

func NewRestaurantFactory(rng *rand.Rand, fake faker.Faker) *RestaurantFactory {
	return &RestaurantFactory{rng: rng, fake: fake, names: make(map[string]bool)}
}

// CreateRestaurant returns a restaurant in city serving one to three of the
// given cuisines, with its menu.
func (rf *RestaurantFactory) CreateRestaurant(city string, cuisines []string, menu *MenuItemFactory) *models.Restaurant {
	areas := cities[city]
	r := &models.Restaurant{
		ID:         fmt.Sprintf("%d", 10000+rf.rng.Intn(890000)),
		Name:       rf.createUniqueName(),
		City:       city,
		Area:       areas[rf.rng.Intn(len(areas))],
		Cuisines:   rf.pickCuisines(cuisines),
		PriceLevel: 1 + rf.rng.Intn(3),
	}
	r.MenuItems = menu.CreateMenu(r)
	return r
}

func (rf *RestaurantFactory) createUniqueName() string {
	base := "Chef"
	if fields := strings.Fields(rf.fake.Company().Name()); len(fields) > 0 {
		base = strings.Trim(fields[0], ",.")
	}
	name := base + " " + nameSuffixes[rf.rng.Intn(len(nameSuffixes))]

	unique := name
	for counter := 2; rf.names[unique]; counter++ {
		unique = fmt.Sprintf("%s %d", name, counter)
	}
	rf.names[unique] = true
	return unique
}

func (rf *RestaurantFactory) pickCuisines(all []string) []string {
	n := 1 + rf.rng.Intn(3)
	if n > len(all) {
		n = len(all)
	}
	picked := make([]string, 0, n)
	for _, i := range rf.rng.Perm(len(all))[:n] {
		picked = append(picked, all[i])
	}
	return picked
}
