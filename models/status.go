package models

// OrderStatus is the shop-level lifecycle of an order
type OrderStatus string

const (
	StatusPending     OrderStatus = "pending"
	StatusConfirmed   OrderStatus = "confirmed"
	StatusProducing   OrderStatus = "producing"
	StatusQC          OrderStatus = "qc"
	StatusPacking     OrderStatus = "packing"
	StatusReadyToShip OrderStatus = "ready_to_ship"
	StatusCompleted   OrderStatus = "completed"
	StatusCancelled   OrderStatus = "cancelled"
)

// OrderStatuses lists every status in progression order
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProducing,
	StatusQC,
	StatusPacking,
	StatusReadyToShip,
	StatusCompleted,
	StatusCancelled,
}

// orderTransitions is the set of moves an admin may make. Staying in the
// same status is always allowed and not listed.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:     {StatusConfirmed, StatusProducing, StatusCancelled},
	StatusConfirmed:   {StatusPending, StatusProducing, StatusCancelled},
	StatusProducing:   {StatusQC, StatusCancelled},
	StatusQC:          {StatusProducing, StatusPacking, StatusReadyToShip, StatusCancelled},
	StatusPacking:     {StatusReadyToShip, StatusCancelled},
	StatusReadyToShip: {StatusCompleted, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {StatusPending},
}

// ParseOrderStatus returns the status named by s
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	return status, status.Valid()
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether no further work happens on the order
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether an admin may move an order from s to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TailorStatus tracks the physical production stages of the assigned tailor
type TailorStatus string

const (
	TailorPending   TailorStatus = "pending"
	TailorCutting   TailorStatus = "cutting"
	TailorSewing    TailorStatus = "sewing"
	TailorFinishing TailorStatus = "finishing"
	TailorDone      TailorStatus = "done"
	TailorDelivered TailorStatus = "delivered"
)

// TailorStatuses lists the stages in the order a job goes through them
var TailorStatuses = []TailorStatus{
	TailorPending,
	TailorCutting,
	TailorSewing,
	TailorFinishing,
	TailorDone,
	TailorDelivered,
}

func ParseTailorStatus(s string) (TailorStatus, bool) {
	status := TailorStatus(s)
	return status, status.Valid()
}

func (s TailorStatus) Valid() bool {
	return s.stage() >= 0
}

// CanAdvanceTo allows staying on a stage or moving to any later one.
// An empty status is treated as pending.
func (s TailorStatus) CanAdvanceTo(next TailorStatus) bool {
	if s == "" {
		s = TailorPending
	}
	from, to := s.stage(), next.stage()
	return from >= 0 && to >= from
}

func (s TailorStatus) stage() int {
	for i, status := range TailorStatuses {
		if status == s {
			return i
		}
	}
	return -1
}
