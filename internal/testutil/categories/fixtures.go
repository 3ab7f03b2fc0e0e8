package categories

// Fixture is a predefined catalog for a family of tests.
type Fixture struct {
	Name       string
	Groups     []string
	Categories []string
}

// Paths used across tests.
const (
	PathFood        = `Food & Dining`
	PathGroceries   = `Food & Dining\Groceries`
	PathCoffee      = `Food & Dining\Coffee`
	PathRestaurants = `Food & Dining\Restaurants`
	PathTransport   = `Transportation`
	PathFuel        = `Transportation\Fuel`
	PathTransit     = `Transportation\Public Transit`
	PathParking     = `Transportation\Parking`
	PathOnline      = `Shopping\Online Shopping`
	PathClothing    = `Shopping\Clothing`
	PathRent        = `Housing\Rent`
	PathElectricity = `Housing\Utilities\Electricity`
	PathInternet    = `Housing\Utilities\Internet`
	PathSalary      = `Income\Salary`
	PathInsurance   = `Insurance`
)

var (
	// FixtureMinimal has a single group with three leaves.
	FixtureMinimal = Fixture{
		Name:       "minimal",
		Categories: []string{PathGroceries, PathCoffee, PathRestaurants},
	}

	// FixtureStandard resembles a personal MoneyMoney catalog with three levels.
	FixtureStandard = Fixture{
		Name:   "standard",
		Groups: []string{PathFood, PathTransport},
		Categories: []string{
			PathGroceries, PathCoffee, PathRestaurants,
			PathFuel, PathTransit, PathParking,
			PathOnline, PathClothing,
			PathRent, PathElectricity, PathInternet,
			PathSalary,
			PathInsurance,
		},
	}
)
