package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

func (rc *ReportController) GetKPIs(c *gin.Context) {
	kpis, err := rc.Reports.KPIs(c.Request.Context(), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "KPIs", kpis)
}

// GetDailyWorkOrders -> ?start=YYYY-MM-DD&end=YYYY-MM-DD, both optional
func (rc *ReportController) GetDailyWorkOrders(c *gin.Context) {
	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	counts, err := rc.Reports.DailyWorkOrders(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily work orders", counts)
}

func (rc *ReportController) GetMonthlyProfit(c *gin.Context) {
	profit, err := rc.Reports.MonthlyProfit(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Monthly profit", profit)
}

func (rc *ReportController) GetPopularOils(c *gin.Context) {
	oils, err := rc.Reports.PopularOils(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Popular oils", oils)
}

func (rc *ReportController) GetDashboard(c *gin.Context) {
	dashboard, err := rc.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Finance dashboard", dashboard)
}

func (rc *ReportController) GetTechnicianWorkload(c *gin.Context) {
	loads, err := rc.Reports.TechnicianWorkload(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Technician workload", loads)
}
