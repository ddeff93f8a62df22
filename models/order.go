package models

import (
	"strings"
	"time"
)

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodPayU = "PayU"
)

// Status labels used by the admin panel. Status stays free text: admins may
// set any label and transitions are not validated.
const (
	OrderStatusPlaced         = "Order Placed"
	OrderStatusPacking        = "Packing"
	OrderStatusShipped        = "Shipped"
	OrderStatusOutForDelivery = "Out for delivery"
	OrderStatusDelivered      = "Delivered"
)

type Order struct {
	ID            string      `gorm:"primaryKey" bson:"_id" json:"_id"`
	UserID        string      `gorm:"index;not null" bson:"userId" json:"userId"`
	Items         []OrderItem `gorm:"serializer:json" bson:"items" json:"items"`
	Address       Address     `gorm:"serializer:json" bson:"address" json:"address"`
	Amount        float64     `gorm:"not null" bson:"amount" json:"amount"`
	PaymentMethod string      `gorm:"not null" bson:"paymentMethod" json:"paymentMethod"`
	Payment       bool        `gorm:"not null;default:false" bson:"payment" json:"payment"`
	TxnID         string      `gorm:"column:txnid;uniqueIndex:idx_orders_txnid,where:txnid <> ''" bson:"txnid,omitempty" json:"txnid,omitempty"`
	PaymentID     string      `gorm:"column:payment_id" bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Status        string      `gorm:"not null" bson:"status" json:"status"`
	Date          time.Time   `gorm:"index" bson:"date" json:"date"`
}

// OrderItem is a snapshot of a catalog entry taken when the order is placed.
type OrderItem struct {
	ProductID string  `bson:"_id" json:"_id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Size      string  `bson:"size" json:"size"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
}

// ItemSummary joins item names the way the gateway's productinfo field expects.
func (o *Order) ItemSummary() string {
	names := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}
