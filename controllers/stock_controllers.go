package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type StockController struct {
	Stock   *services.StockService
	Catalog *services.CatalogService
}

func NewStockController(stock *services.StockService, catalog *services.CatalogService) *StockController {
	return &StockController{Stock: stock, Catalog: catalog}
}

// GetAllStockItems -> ?search=&is_oil=
func (sc *StockController) GetAllStockItems(c *gin.Context) {
	isOil, ok := optionalBool(c, "is_oil")
	if !ok {
		return
	}
	items, err := sc.Stock.List(c.Request.Context(), services.StockFilter{Search: c.Query("search"), IsOil: isOil})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of stock items", items)
}

func (sc *StockController) GetLowStock(c *gin.Context) {
	items, err := sc.Stock.ListLowStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock items", items)
}

func (sc *StockController) GetOutOfStock(c *gin.Context) {
	items, err := sc.Stock.ListOutOfStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Out of stock items", items)
}

func (sc *StockController) GetStockItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := sc.Stock.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock item detail", item)
}

func (sc *StockController) CreateStockItem(c *gin.Context) {
	var input services.StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := sc.Stock.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Stock item created", item)
}

func (sc *StockController) UpdateStockItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.StockItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := sc.Stock.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock item updated", item)
}

func (sc *StockController) DeleteStockItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.Stock.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock item deleted", nil)
}

// AdjustStock -> {"delta": 10, "note": "restock"}; negative delta removes stock
func (sc *StockController) AdjustStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Delta int    `json:"delta" binding:"required"`
		Note  string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := sc.Stock.Adjust(c.Request.Context(), id, body.Delta, body.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Stock item %d adjusted by %d (%s)", id, body.Delta, body.Note)
	utils.RespondJSON(c, http.StatusOK, "Stock adjusted", item)
}

func (sc *StockController) GetStockMovements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	movements, err := sc.Stock.ListMovements(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock movements", movements)
}

func (sc *StockController) GetAllServices(c *gin.Context) {
	list, err := sc.Catalog.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of services", list)
}

func (sc *StockController) GetActiveServices(c *gin.Context) {
	list, err := sc.Catalog.ListActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active services", list)
}

func (sc *StockController) GetService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	svc, err := sc.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service detail", svc)
}

func (sc *StockController) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	svc, err := sc.Catalog.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Service created", svc)
}

func (sc *StockController) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	svc, err := sc.Catalog.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service updated", svc)
}

func (sc *StockController) SetServiceActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	svc, err := sc.Catalog.SetActive(c.Request.Context(), id, *body.IsActive)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service status updated", svc)
}

func (sc *StockController) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.Catalog.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service deleted", nil)
}
