package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/middlewares"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type AdminController struct {
	Data *services.DataService
}

func NewAdminController(data *services.DataService) *AdminController {
	return &AdminController{Data: data}
}

func (ac *AdminController) ExportData(c *gin.Context) {
	doc, err := ac.Data.Export(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=autoservice-export-"+doc.ExportedAt.Format("20060102-150405")+".json")
	utils.RespondJSON(c, http.StatusOK, "Data exported", doc)
}

func (ac *AdminController) ImportData(c *gin.Context) {
	var doc services.DataDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	summary, err := ac.Data.Import(c.Request.Context(), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Data imported", summary)
}

func (ac *AdminController) ClearData(c *gin.Context) {
	if err := ac.Data.Clear(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Business data cleared by user %d", middlewares.CurrentUserID(c))
	utils.RespondJSON(c, http.StatusOK, "Data cleared", nil)
}
