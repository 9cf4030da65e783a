package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MinAmountWillPay is the smallest commitment a customer can be registered with.
const MinAmountWillPay = 700

type Customer struct {
	Id            bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string         `bson:"name" json:"name"`
	AmountWillPay float64        `bson:"amountWillPay" json:"amountWillPay"`
	PaidAmount    float64        `bson:"paidAmount" json:"paidAmount"`
	Referrer      *bson.ObjectID `bson:"referrer,omitempty" json:"referrer,omitempty"`
	ReferralCount int            `bson:"referralCount" json:"referralCount"`
	Version       int64          `bson:"version" json:"version"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// ReferrerSummary is the populated form of a customer's referrer.
type ReferrerSummary struct {
	Id   bson.ObjectID `json:"id"`
	Name string        `json:"name"`
}

// CustomerView is a customer as returned by the API, with the referrer
// pointer resolved to its name.
type CustomerView struct {
	Id            bson.ObjectID    `json:"id"`
	Name          string           `json:"name"`
	AmountWillPay float64          `json:"amountWillPay"`
	PaidAmount    float64          `json:"paidAmount"`
	ReferralCount int              `json:"referralCount"`
	Referrer      *ReferrerSummary `json:"referrer"`
	Version       int64            `json:"version"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
