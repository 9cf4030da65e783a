package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/dto"
	"github.com/hazratullahh/eceomerce-jawad/services"
)

func customerInput(body dto.CustomerDTO) services.CustomerInput {
	return services.CustomerInput{
		Name:          &body.Name,
		AmountWillPay: body.AmountWillPay,
		PaidAmount:    body.PaidAmount,
		Referrer:      referrerInput(body.Referrer),
		Version:       body.Version,
	}
}

func updateCustomerInput(body dto.UpdateCustomerDTO) services.CustomerInput {
	return services.CustomerInput{
		Name:          body.Name,
		AmountWillPay: body.AmountWillPay,
		PaidAmount:    body.PaidAmount,
		Referrer:      referrerInput(body.Referrer),
		Version:       body.Version,
	}
}

// referrerInput maps an absent referrer to nil and null to "".
func referrerInput(ref dto.NullableID) *string {
	if !ref.Set {
		return nil
	}
	v := ref.Value
	return &v
}

func GetCustomers(svc *services.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), c.Query("search"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetCustomer(svc *services.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Customer")
		if !ok {
			return
		}
		customer, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func AddCustomer(svc *services.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CustomerDTO
		if !bindJSON(c, &body) {
			return
		}
		customer, err := svc.Create(c.Request.Context(), customerInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

func UpdateCustomer(svc *services.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Customer")
		if !ok {
			return
		}
		var body dto.UpdateCustomerDTO
		if !bindJSON(c, &body) {
			return
		}
		customer, err := svc.Update(c.Request.Context(), id, updateCustomerInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully!", "customer": customer})
	}
}

func DeleteCustomer(svc *services.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Customer")
		if !ok {
			return
		}
		if _, err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully!"})
	}
}

func RecountReferrals(svc *services.CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fixed, err := svc.RecountReferrals(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Referral counts recomputed", "corrected": fixed})
	}
}
