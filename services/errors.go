package services

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrTailorNotFound      = errors.New("tailor not found")
	ErrNotATailor          = errors.New("member is not a tailor")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidTransition   = errors.New("status change not allowed")
	ErrInvalidTailorStatus = errors.New("invalid tailor status")
	ErrTailorMismatch      = errors.New("order is assigned to another tailor")
	ErrInvalidAmount       = errors.New("price and deposit must not be negative")
	ErrOrderNumberTaken    = errors.New("order number already exists")
	ErrInvalidRole         = errors.New("invalid member role")
	ErrCustomerRequired    = errors.New("customer name is required")
	ErrLineUserIDRequired  = errors.New("lineUserId is required")
	ErrInvalidCredentials  = errors.New("invalid admin secret")
)
