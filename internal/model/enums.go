package model

// Order statuses. Transitions are driven by fulfillment, not by this
// service; the API only ever reads them back.
const (
	StatusPlaced         = "placed"
	StatusConfirmed      = "confirmed"
	StatusShipped        = "shipped"
	StatusOutForDelivery = "out_for_delivery"
	StatusCompleted      = "completed"
)

// Statuses in fulfillment order.
var Statuses = []string{StatusPlaced, StatusConfirmed, StatusShipped, StatusOutForDelivery, StatusCompleted}

// Garment sizes a catalog entry or cart row may carry.
var Sizes = []string{"S", "M", "L", "XL", "XXL"}

func ValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
