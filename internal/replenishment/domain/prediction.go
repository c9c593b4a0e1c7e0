package domain

import (
	"math"
	"time"
)

// Policy holds the replenishment tuning parameters. The low-stock threshold
// is a single deployment-wide value; earlier revisions of the workflow used
// different thresholds per entry point, which was a defect, not a feature.
type Policy struct {
	// LowStockThresholdDays marks a pair low-stock when its projected days
	// to depletion fall below this value.
	LowStockThresholdDays float64
	// MinVelocity is the smallest average daily sales rate considered a
	// usable signal; pairs selling slower are skipped.
	MinVelocity float64
	// VelocityWindowDays limits how far back sales history is read.
	// Zero means the full history.
	VelocityWindowDays int
	// DefaultTransitETA is assumed when the warehouse dispatches without
	// an estimated arrival.
	DefaultTransitETA time.Duration
}

// DefaultPolicy returns the production defaults
func DefaultPolicy() Policy {
	return Policy{
		LowStockThresholdDays: 5,
		MinVelocity:           0.1,
		VelocityWindowDays:    0,
		DefaultTransitETA:     48 * time.Hour,
	}
}

// DailyProductSales is one calendar day's summed sales for a product
type DailyProductSales struct {
	ProductID uint
	Day       time.Time
	Units     int
}

// ProductSalesActivity summarizes recent sale events for one product
type ProductSalesActivity struct {
	ProductID uint
	SaleCount int
	LastSale  time.Time
}

// VelocityByProduct computes the mean daily units sold per product.
// Only days with at least one recorded sale contribute to the average;
// zero-sale days are not represented. Products without history are absent
// from the result and treated downstream as "no signal, skip".
func VelocityByProduct(daily []DailyProductSales) map[uint]float64 {
	sums := make(map[uint]int)
	days := make(map[uint]int)

	for _, row := range daily {
		sums[row.ProductID] += row.Units
		days[row.ProductID]++
	}

	velocity := make(map[uint]float64, len(sums))
	for productID, total := range sums {
		velocity[productID] = float64(total) / float64(days[productID])
	}
	return velocity
}

// ShelfStockView is the slice of shelf state the orchestrator needs:
// current quantity plus the owning shelf's capacity and store.
type ShelfStockView struct {
	ProductID uint `json:"product_id"`
	ShelfID   uint `json:"shelf_id"`
	StoreID   uint `json:"store_id"`
	Quantity  int  `json:"quantity"`
	Capacity  int  `json:"capacity"`
}

// QuantityNeeded is how many units would fill the shelf to capacity
func (v ShelfStockView) QuantityNeeded() int {
	return v.Capacity - v.Quantity
}

// Prediction is the depletion outlook for one (product, shelf) pair.
// DaysToDepletion is meaningless when Unbounded is true.
type Prediction struct {
	ProductID             uint       `json:"product_id"`
	ShelfID               uint       `json:"shelf_id"`
	StoreID               uint       `json:"store_id"`
	Quantity              int        `json:"quantity"`
	SalesVelocity         float64    `json:"sales_velocity"`
	DaysToDepletion       float64    `json:"days_to_depletion"`
	Unbounded             bool       `json:"unbounded,omitempty"`
	ExpectedDepletionDate *time.Time `json:"expected_depletion_date,omitempty"`
	IsLowStock            bool       `json:"is_low_stock"`
	Urgency               string     `json:"urgency,omitempty"`
}

// Predict computes the depletion outlook for one pair at the given date
func Predict(stock ShelfStockView, velocity float64, policy Policy, today time.Time) Prediction {
	p := Prediction{
		ProductID:     stock.ProductID,
		ShelfID:       stock.ShelfID,
		StoreID:       stock.StoreID,
		Quantity:      stock.Quantity,
		SalesVelocity: velocity,
	}

	if velocity <= 0 {
		p.Unbounded = true
		return p
	}

	p.DaysToDepletion = round2(float64(stock.Quantity) / velocity)

	expected := Day(today).AddDate(0, 0, int(math.Round(p.DaysToDepletion)))
	p.ExpectedDepletionDate = &expected

	if velocity >= policy.MinVelocity && p.DaysToDepletion < policy.LowStockThresholdDays {
		p.IsLowStock = true
		p.Urgency = UrgencyFor(p.DaysToDepletion)
	}
	return p
}

// UrgencyFor maps days to depletion onto an urgency tier. Tiers are
// evaluated from the tightest deadline up.
func UrgencyFor(daysToDepletion float64) string {
	switch {
	case daysToDepletion <= 1:
		return UrgencyCritical
	case daysToDepletion <= 2:
		return UrgencyHigh
	case daysToDepletion <= 4:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
