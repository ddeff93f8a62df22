package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" bson:"_id" json:"_id"`
	Name      string    `gorm:"not null" bson:"name" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	Password  string    `gorm:"not null" bson:"password" json:"-"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CartData  CartData  `gorm:"column:cart_data;serializer:json" bson:"cartData" json:"cartData"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Address is the shipping snapshot stored on an order.
type Address struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

func (a Address) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
