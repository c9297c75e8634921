package memory

import (
	"time"

	"github.com/marketfront/orderflow/internal/domains/orders/domain"
)

// DefaultSeedCount is the number of orders seeded at process start.
const DefaultSeedCount = 200

// Seed value pools. Records cycle through these in index order, so two
// seedings with the same count produce identical records apart from
// values derived from the seed-time clock.
var (
	seedBuyers = []string{
		"Northwind Traders", "Aurora Retail", "Blue Harbor Goods", "Cascade Supply Co",
		"Meridian Outfitters", "Juniper & Co", "Harborline Markets", "Stonebridge Retail",
	}
	seedSuppliers = []string{
		"Pacific Mills", "Delta Fabrication", "Evergreen Textiles",
		"Ironwood Industrial", "Summit Packaging", "Clearwater Foods",
	}
	seedProducts = []string{
		"Canvas Tote", "Ceramic Mug Set", "Walnut Desk Organizer", "Linen Throw",
		"Steel Water Bottle", "Bamboo Cutting Board", "Wool Blanket", "Glass Carafe",
		"Leather Journal", "Cotton Apron",
	}
	// Unit prices aligned index-for-index with seedProducts.
	seedUnitPrices = []int64{
		24, 48, 65, 89, 19, 34, 120, 42, 55, 27,
	}
	seedRegions = []string{
		"us-west", "us-east", "eu-central", "ap-southeast", "latam",
	}
)

// Seed populates the repository with count deterministic orders. The
// 1-based record index drives every varying field; the status rule is
// evaluated in priority order so an index matching several rules takes
// the first.
//
// Seeding happens once, before any subscriber exists, so no domain
// events are emitted.
func (r *Repository) Seed(count int) {
	if count <= 0 {
		count = DefaultSeedCount
	}
	base := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i <= count; i++ {
		order := seedOrder(i, base)
		order.ID = nextID(len(r.orders))
		r.orders[order.ID] = &order
	}
}

func seedOrder(i int, base time.Time) domain.Order {
	product := i % len(seedProducts)
	quantity := i%9 + 1
	createdAt := base.Add(-time.Duration(i) * 37 * time.Minute)
	return domain.Order{
		Buyer:            seedBuyers[i%len(seedBuyers)],
		Supplier:         seedSuppliers[i%len(seedSuppliers)],
		Product:          seedProducts[product],
		Quantity:         quantity,
		Total:            int64(quantity) * seedUnitPrices[product],
		Status:           seedStatus(i),
		Region:           seedRegions[i%len(seedRegions)],
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
		ExpectedShipDate: createdAt.AddDate(0, 0, 3+i%7),
	}
}

func seedStatus(i int) domain.Status {
	switch {
	case i%11 == 0:
		return domain.StatusCancelled
	case i%5 == 0:
		return domain.StatusProcessing
	case i%3 == 0:
		return domain.StatusFulfilled
	default:
		return domain.StatusPending
	}
}
