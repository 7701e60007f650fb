package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/middlewares"
	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type WorkOrderController struct {
	WorkOrders *services.WorkOrderService
}

func NewWorkOrderController(workOrders *services.WorkOrderService) *WorkOrderController {
	return &WorkOrderController{WorkOrders: workOrders}
}

// GetAllWorkOrders -> ?status=&technician_id=&client_id=&car_id=
func (wc *WorkOrderController) GetAllWorkOrders(c *gin.Context) {
	filter := services.WorkOrderFilter{Status: models.WorkOrderStatus(c.Query("status"))}
	var ok bool
	if filter.TechnicianID, ok = optionalUint(c, "technician_id"); !ok {
		return
	}
	if filter.ClientID, ok = optionalUint(c, "client_id"); !ok {
		return
	}
	if filter.CarID, ok = optionalUint(c, "car_id"); !ok {
		return
	}

	orders, err := wc.WorkOrders.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of work orders", orders)
}

func (wc *WorkOrderController) GetWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	wo, err := wc.WorkOrders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Work order detail", wo)
}

func (wc *WorkOrderController) CreateWorkOrder(c *gin.Context) {
	var input services.WorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	wo, err := wc.WorkOrders.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Work order %d created for car %d", wo.ID, wo.CarID)
	utils.RespondJSON(c, http.StatusCreated, "Work order created", wo)
}

func (wc *WorkOrderController) UpdateWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.WorkOrderUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	wo, err := wc.WorkOrders.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Work order updated", wo)
}

func (wc *WorkOrderController) DeleteWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := wc.WorkOrders.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Work order deleted", nil)
}

func (wc *WorkOrderController) AssignWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body struct {
		TechnicianID uint `json:"technician_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	wo, err := wc.WorkOrders.Assign(c.Request.Context(), id, body.TechnicianID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Work order %d assigned to technician %d", id, body.TechnicianID)
	utils.RespondJSON(c, http.StatusOK, "Work order assigned", wo)
}

// ClaimWorkOrder -> the calling technician starts work; their other active order goes pending
func (wc *WorkOrderController) ClaimWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	wo, err := wc.WorkOrders.Claim(c.Request.Context(), id, middlewares.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Work started", wo)
}

func (wc *WorkOrderController) ResumeWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	wo, err := wc.WorkOrders.Resume(c.Request.Context(), id, middlewares.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Work resumed", wo)
}

func (wc *WorkOrderController) RecordWork(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := wc.WorkOrders.RecordWork(c.Request.Context(), id, middlewares.CurrentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	message := "Work recorded"
	if len(result.Warnings) > 0 {
		message = "Work recorded with stock warnings"
	}
	utils.RespondJSON(c, http.StatusCreated, message, result)
}

func (wc *WorkOrderController) GetWorkOrderReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := wc.WorkOrders.GetReportForWorkOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tech report", report)
}

// GetAllTechReports -> ?technician_id=
func (wc *WorkOrderController) GetAllTechReports(c *gin.Context) {
	techID, ok := optionalUint(c, "technician_id")
	if !ok {
		return
	}
	reports, err := wc.WorkOrders.ListReports(c.Request.Context(), techID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tech reports", reports)
}

func (wc *WorkOrderController) GetTechReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := wc.WorkOrders.GetReport(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tech report", report)
}

func (wc *WorkOrderController) UpdateTechReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	report, err := wc.WorkOrders.EditReport(c.Request.Context(), id, actor(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tech report updated", report)
}

func (wc *WorkOrderController) DeleteTechReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := wc.WorkOrders.DeleteReport(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tech report deleted", nil)
}
