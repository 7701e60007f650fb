package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type FinanceController struct {
	Finance *services.FinanceService
}

func NewFinanceController(finance *services.FinanceService) *FinanceController {
	return &FinanceController{Finance: finance}
}

func (fc *FinanceController) GetAllExpenses(c *gin.Context) {
	expenses, err := fc.Finance.ListExpenses(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of expenses", expenses)
}

func (fc *FinanceController) GetExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	expense, err := fc.Finance.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expense detail", expense)
}

func (fc *FinanceController) CreateExpense(c *gin.Context) {
	var input services.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	expense, err := fc.Finance.CreateExpense(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Expense created", expense)
}

func (fc *FinanceController) UpdateExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	expense, err := fc.Finance.UpdateExpense(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expense updated", expense)
}

func (fc *FinanceController) DeleteExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := fc.Finance.DeleteExpense(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expense deleted", nil)
}

func (fc *FinanceController) GetAllDebts(c *gin.Context) {
	debts, err := fc.Finance.ListDebts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of debts", debts)
}

func (fc *FinanceController) GetDebt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	debt, err := fc.Finance.GetDebt(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Debt detail", debt)
}

func (fc *FinanceController) CreateDebt(c *gin.Context) {
	var input services.DebtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	debt, err := fc.Finance.CreateDebt(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Debt created", debt)
}

func (fc *FinanceController) UpdateDebt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.DebtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	debt, err := fc.Finance.UpdateDebt(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Debt updated", debt)
}

func (fc *FinanceController) DeleteDebt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := fc.Finance.DeleteDebt(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Debt deleted", nil)
}

func (fc *FinanceController) AddDebtPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.DebtPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	debt, err := fc.Finance.AddDebtPayment(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Debt %d payment of %s recorded, remaining %s", id, utils.FormatMoney(input.Amount), utils.FormatMoney(debt.Remaining()))
	utils.RespondJSON(c, http.StatusOK, "Payment recorded", debt)
}
