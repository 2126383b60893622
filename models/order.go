package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrdersCollection is the mongo collection holding orders
const OrdersCollection = "orders"

// Measurements are the customer's body measurements in centimetres
type Measurements struct {
	Bust         float64 `bson:"bust" json:"bust"`
	Waist        float64 `bson:"waist" json:"waist"`
	Hip          float64 `bson:"hip" json:"hip"`
	Shoulder     float64 `bson:"shoulder" json:"shoulder"`
	Armhole      float64 `bson:"armhole" json:"armhole"`
	SleeveLength float64 `bson:"sleeveLength" json:"sleeveLength"`
	UpperArm     float64 `bson:"upperArm" json:"upperArm"`
	FrontLength  float64 `bson:"frontLength" json:"frontLength"`
	DressLength  float64 `bson:"dressLength" json:"dressLength"`
}

// StatusChange records one move of the main status
type StatusChange struct {
	From   OrderStatus `bson:"from,omitempty" json:"from,omitempty"`
	To     OrderStatus `bson:"to" json:"to"`
	Source string      `bson:"source" json:"source"` // admin, tailor, customer, system
	At     time.Time   `bson:"at" json:"at"`
}

// Order represents one sewing job
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber string             `bson:"orderNumber" json:"orderNumber"`

	CustomerName string              `bson:"customerName" json:"customerName"`
	Phone        string              `bson:"phone" json:"phone"`
	Customer     *primitive.ObjectID `bson:"customer,omitempty" json:"customer,omitempty"`     // linked member
	LineUserID   string              `bson:"lineUserId,omitempty" json:"lineUserId,omitempty"` // copied from the member at creation

	Price   Money `bson:"price" json:"price"`
	Deposit Money `bson:"deposit" json:"deposit"`
	Balance Money `bson:"balance" json:"balance"` // always Price - Deposit

	DressName    string       `bson:"dressName" json:"dressName"`
	Color        string       `bson:"color" json:"color"`
	Size         string       `bson:"size" json:"size"`
	Measurements Measurements `bson:"measurements" json:"measurements"`
	Notes        string       `bson:"notes,omitempty" json:"notes,omitempty"`
	DueDate      *time.Time   `bson:"dueDate,omitempty" json:"dueDate,omitempty"`

	Status        OrderStatus    `bson:"status" json:"status"`
	StatusHistory []StatusChange `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`

	TailorID          *primitive.ObjectID `bson:"tailorId,omitempty" json:"tailorId,omitempty"`
	TailorStatus      TailorStatus        `bson:"tailorStatus,omitempty" json:"tailorStatus,omitempty"`
	TailorNotes       string              `bson:"tailorNotes,omitempty" json:"tailorNotes,omitempty"`
	TailorAssignedAt  *time.Time          `bson:"tailorAssignedAt,omitempty" json:"tailorAssignedAt,omitempty"`
	TailorCompletedAt *time.Time          `bson:"tailorCompletedAt,omitempty" json:"tailorCompletedAt,omitempty"`

	CustomerConfirmedAt *time.Time `bson:"customerConfirmedAt,omitempty" json:"customerConfirmedAt,omitempty"`

	ImageKey *string `bson:"imageKey,omitempty" json:"imageKey,omitempty"` // storage key of the reference photo
	ImageURL *string `bson:"-" json:"imageUrl,omitempty"`                  // computed per response

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeBalance keeps Balance derived from Price and Deposit
func (o *Order) RecomputeBalance() {
	o.Balance = o.Price.Sub(o.Deposit)
}

// RestartTailorWork sends a finished job back to the first tailor stage, as
// when quality check returns the dress for rework
func (o *Order) RestartTailorWork() bool {
	if o.TailorStatus != TailorDone && o.TailorStatus != TailorDelivered {
		return false
	}
	o.TailorStatus = TailorPending
	o.TailorCompletedAt = nil
	return true
}

// SetStatus moves the order to next and records the change. It does not
// check the transition table; callers decide whether the move is allowed.
func (o *Order) SetStatus(next OrderStatus, source string, at time.Time) bool {
	if o.Status == next {
		return false
	}
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		From:   o.Status,
		To:     next,
		Source: source,
		At:     at,
	})
	o.Status = next
	return true
}

// HasTailor reports whether a tailor is assigned
func (o *Order) HasTailor() bool {
	return o.TailorID != nil && !o.TailorID.IsZero()
}
