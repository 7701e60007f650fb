package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type BillingController struct {
	Billing *services.BillingService
}

func NewBillingController(billing *services.BillingService) *BillingController {
	return &BillingController{Billing: billing}
}

// PreviewBilling -> ?labor_cost=&oil_change_cost=, nothing is saved
func (bc *BillingController) PreviewBilling(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var overrides services.BillingOverrides
	if raw := c.Query("labor_cost"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		overrides.LaborCost = &v
	}
	if raw := c.Query("oil_change_cost"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		overrides.OilChangeCost = v
	}

	breakdown, err := bc.Billing.Preview(c.Request.Context(), id, overrides)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Billing preview", breakdown)
}

func (bc *BillingController) GenerateBilling(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var overrides services.BillingOverrides
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	billing, err := bc.Billing.Generate(c.Request.Context(), id, overrides)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Billing generated", billing)
}

// GetAllBillings -> ?paid=true|false
func (bc *BillingController) GetAllBillings(c *gin.Context) {
	paid, ok := optionalBool(c, "paid")
	if !ok {
		return
	}
	billings, err := bc.Billing.List(c.Request.Context(), services.BillingFilter{Paid: paid})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of billings", billings)
}

func (bc *BillingController) GetBilling(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	billing, err := bc.Billing.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Billing detail", billing)
}

func (bc *BillingController) UpdateBilling(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var overrides services.BillingOverrides
	if err := c.ShouldBindJSON(&overrides); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	billing, err := bc.Billing.Update(c.Request.Context(), id, overrides)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Billing updated", billing)
}

func (bc *BillingController) MarkBillingPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	billing, err := bc.Billing.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Billing %s paid, total %s", billing.InvoiceNumber, utils.FormatMoney(billing.Total))
	utils.RespondJSON(c, http.StatusOK, "Billing marked as paid", billing)
}

func (bc *BillingController) DeleteBilling(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := bc.Billing.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Billing deleted", nil)
}

func (bc *BillingController) GetWorkOrderBilling(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	billing, err := bc.Billing.GetByWorkOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Billing detail", billing)
}
