package catalogsync

import "fmt"

// Demo provider location ids. The demo integration creates a warehouse for
// the main location and usually one for the annex; facts for locations the
// venue never connected are dropped at sync time.
const (
	LocationMain  = "sq-loc-main"
	LocationAnnex = "sq-loc-annex"
)

// DemoBatches returns the two-batch demo import queue: a first full import
// of twenty products (fourteen stocked at the main location) and a smaller
// follow-up drop.
func DemoBatches() []Batch {
	first := Batch{Label: "first-sync"}
	for i := 1; i <= 20; i++ {
		item := ImportItem{
			ProductID:  fmt.Sprintf("prod-%03d", i),
			Name:       demoNames[i-1],
			SKU:        fmt.Sprintf("VEN-%04d", 1000+i),
			CategoryID: demoCategories[i-1],
		}
		if i <= 14 {
			item.Facts = append(item.Facts, ImportFact{
				ExternalLocationID: LocationMain,
				Price:              demoPrices[i-1],
				Currency:           "USD",
				Stock:              40 + i,
			})
		}
		// The first three products are stocked at both locations; the
		// last six only at the annex.
		if i <= 3 || i > 14 {
			item.Facts = append(item.Facts, ImportFact{
				ExternalLocationID: LocationAnnex,
				Price:              demoPrices[i-1],
				Currency:           "USD",
				Stock:              15 + i,
			})
		}
		first.Items = append(first.Items, item)
	}

	second := Batch{Label: "second-sync"}
	for i := 1; i <= 6; i++ {
		location := LocationMain
		if i > 4 {
			location = LocationAnnex
		}
		second.Items = append(second.Items, ImportItem{
			ProductID:  fmt.Sprintf("prod-%03d", 100+i),
			Name:       demoSecondNames[i-1],
			SKU:        fmt.Sprintf("VEN-%04d", 2000+i),
			CategoryID: demoSecondCategories[i-1],
			Facts: []ImportFact{{
				ExternalLocationID: location,
				Price:              demoSecondPrices[i-1],
				Currency:           "USD",
				Stock:              25 + i,
			}},
		})
	}

	return []Batch{first, second}
}

var demoNames = []string{
	"Tour T-Shirt (Black)",
	"Tour T-Shirt (White)",
	"Vintage Logo Tee",
	"Zip Hoodie (Grey)",
	"Pullover Hoodie (Navy)",
	"Enamel Pin Set",
	"Poster: Season Lineup",
	"Keychain (Brass)",
	"Sticker Pack",
	"Tote Bag (Canvas)",
	"Trucker Cap",
	"Beanie (Charcoal)",
	"Salted Pretzel",
	"Popcorn (Large)",
	"Nachos & Cheese",
	"Chocolate Bar",
	"Sparkling Water",
	"Cold Brew Coffee",
	"Lemonade (Bottled)",
	"Energy Drink",
}

var demoCategories = []string{
	"cat-tshirts", "cat-tshirts", "cat-tshirts",
	"cat-hoodies", "cat-hoodies",
	"cat-souvenirs", "cat-souvenirs", "cat-souvenirs", "cat-souvenirs", "cat-souvenirs",
	"cat-souvenirs", "cat-souvenirs",
	"cat-snacks", "cat-snacks", "cat-snacks", "cat-snacks",
	"cat-drinks", "cat-drinks", "cat-drinks", "cat-drinks",
}

var demoPrices = []float64{
	28, 28, 32, 55, 48, 14, 18, 8, 6, 22,
	24, 19, 5.5, 7, 8.5, 3.5, 3, 5, 4.5, 4,
}

var demoSecondNames = []string{
	"Limited Foil Poster",
	"Artist Collab Tee",
	"Ice Cream Sandwich",
	"Hot Dog (Classic)",
	"Souvenir Cup",
	"Craft Soda",
}

var demoSecondCategories = []string{
	"cat-souvenirs", "cat-tshirts", "cat-snacks", "cat-snacks", "cat-souvenirs", "cat-drinks",
}

var demoSecondPrices = []float64{30, 36, 6, 9, 12, 5}
