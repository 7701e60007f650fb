package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

type ClientController struct {
	Clients *services.ClientService
	Cars    *services.CarService
	Intake  *services.IntakeService
}

func NewClientController(clients *services.ClientService, cars *services.CarService, intake *services.IntakeService) *ClientController {
	return &ClientController{Clients: clients, Cars: cars, Intake: intake}
}

func (cc *ClientController) GetAllClients(c *gin.Context) {
	clients, err := cc.Clients.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of clients", clients)
}

func (cc *ClientController) GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := cc.Clients.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client detail", client)
}

func (cc *ClientController) CreateClient(c *gin.Context) {
	var input services.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	client, err := cc.Clients.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Client created successfully", client)
}

func (cc *ClientController) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	client, err := cc.Clients.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client updated", client)
}

func (cc *ClientController) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.Clients.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Client %d deleted with cars and work orders", id)
	utils.RespondJSON(c, http.StatusOK, "Client deleted", nil)
}

func (cc *ClientController) GetClientCars(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cars, err := cc.Clients.ListCars(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client cars", cars)
}

func (cc *ClientController) GetAllCars(c *gin.Context) {
	clientID, ok := optionalUint(c, "client_id")
	if !ok {
		return
	}
	cars, err := cc.Cars.List(c.Request.Context(), clientID, c.Query("plate"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of cars", cars)
}

func (cc *ClientController) GetCar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	car, err := cc.Cars.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Car detail", car)
}

// CreateCar registers a plate for a client. A plate owned by another client
// is transferred and the response says so.
func (cc *ClientController) CreateCar(c *gin.Context) {
	var input services.CarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	reg, err := cc.Cars.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	message := "Car registered"
	if reg.Transferred {
		message = "Car ownership transferred"
	}
	utils.RespondJSON(c, http.StatusCreated, message, reg)
}

func (cc *ClientController) UpdateCar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.CarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	car, err := cc.Cars.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Car updated", car)
}

func (cc *ClientController) DeleteCar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.Cars.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Car deleted", nil)
}

// RegisterIntake -> new client or returning client, car and work order in one call
func (cc *ClientController) RegisterIntake(c *gin.Context) {
	var req services.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := cc.Intake.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Intake registered: client=%d car=%s work_order=%d",
		result.Client.ID, result.Registration.Car.Plate, result.WorkOrder.ID)
	utils.RespondJSON(c, http.StatusCreated, "Intake registered", result)
}
