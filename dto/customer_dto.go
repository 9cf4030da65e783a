package dto

// CustomerDTO is the body of POST /customers.
type CustomerDTO struct {
	Name          string     `json:"name" binding:"required,max=200"`
	AmountWillPay *float64   `json:"amountWillPay" binding:"required,min=700"`
	PaidAmount    *float64   `json:"paidAmount" binding:"omitempty,min=0"`
	Referrer      NullableID `json:"referrer"`
	Version       *int64     `json:"version" binding:"omitempty,min=1"`
}

// UpdateCustomerDTO is the body of PUT /customers/:id. Absent fields keep
// their stored values.
type UpdateCustomerDTO struct {
	Name          *string    `json:"name" binding:"omitempty,max=200"`
	AmountWillPay *float64   `json:"amountWillPay" binding:"omitempty,min=700"`
	PaidAmount    *float64   `json:"paidAmount" binding:"omitempty,min=0"`
	Referrer      NullableID `json:"referrer"`
	Version       *int64     `json:"version" binding:"omitempty,min=1"`
}
