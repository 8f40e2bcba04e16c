package datasource

import (
	"math/rand/v2"
	"time"
)

// DefaultSeed is the seed the sales dashboard uses unless told otherwise.
const DefaultSeed uint64 = 42

// Products lists the product keys in column order.
var Products = []string{"product_a", "product_b", "product_c"}

// Sales volume bounds, inclusive.
const (
	MinMonthlySales   = 50
	MaxMonthlySales   = 200
	MinLocationVolume = 100
	MaxLocationVolume = 1000
)

// MonthlySales is one month of unit sales per product.
type MonthlySales struct {
	Month    int // 1-12
	Label    string
	ProductA int
	ProductB int
	ProductC int
}

// Units returns the month's sales for a key from Products.
func (m MonthlySales) Units(product string) int {
	switch product {
	case "product_a":
		return m.ProductA
	case "product_b":
		return m.ProductB
	case "product_c":
		return m.ProductC
	}
	panic("datasource: unknown product " + product)
}

// Location is a sales region with coordinates and a volume.
type Location struct {
	Region string
	Lat    float64
	Lon    float64
	Volume int
}

type region struct {
	name     string
	lat, lon float64
}

var regions = []region{
	{"서울", 37.5665, 126.9780},
	{"부산", 35.1796, 129.0756},
	{"인천", 37.4563, 126.7052},
	{"대구", 35.8714, 128.6014},
	{"광주", 35.1595, 126.8526},
	{"대전", 36.3504, 127.3845},
	{"울산", 35.5384, 129.3114},
	{"세종", 36.4800, 127.2890},
	{"경기", 37.4138, 127.5183},
	{"강원", 37.8228, 128.1555},
	{"충북", 36.6357, 127.4914},
	{"충남", 36.6588, 126.8000},
}

// GenerateSales draws twelve months of product sales and the regional volumes
// from one seeded stream. The same seed always yields identical data.
// Products are drawn column by column, then the locations.
func GenerateSales(seed uint64) ([]MonthlySales, []Location) {
	rng := rand.New(rand.NewPCG(seed, seed))

	months := make([]MonthlySales, 12)
	for i := range months {
		months[i] = MonthlySales{
			Month: i + 1,
			Label: time.Month(i + 1).String()[:3],
		}
	}
	for i := range months {
		months[i].ProductA = between(rng, MinMonthlySales, MaxMonthlySales)
	}
	for i := range months {
		months[i].ProductB = between(rng, MinMonthlySales, MaxMonthlySales)
	}
	for i := range months {
		months[i].ProductC = between(rng, MinMonthlySales, MaxMonthlySales)
	}

	locations := make([]Location, len(regions))
	for i, r := range regions {
		locations[i] = Location{
			Region: r.name,
			Lat:    r.lat,
			Lon:    r.lon,
			Volume: between(rng, MinLocationVolume, MaxLocationVolume),
		}
	}

	return months, locations
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
