package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/autoservice-app/middlewares"
	"github.com/yeremiapane/autoservice-app/services"
	"github.com/yeremiapane/autoservice-app/utils"
)

// respondServiceError maps a service failure to its HTTP status. Anything
// that is not a DomainError is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	var de *services.DomainError
	if !errors.As(err, &de) {
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
		return
	}

	code := http.StatusBadRequest
	switch de.Kind {
	case services.KindNotFound:
		code = http.StatusNotFound
	case services.KindConflict, services.KindInvalidTransition:
		code = http.StatusConflict
	case services.KindForbidden:
		code = http.StatusForbidden
	case services.KindUnauthorized:
		code = http.StatusUnauthorized
	}
	utils.RespondError(c, code, de)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", param))
		return 0, false
	}
	return uint(id), true
}

// optionalUint reads an optional numeric query parameter.
func optionalUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", key))
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func optionalBool(c *gin.Context, key string) (*bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", key))
		return nil, false
	}
	return &v, true
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{
		UserID: middlewares.CurrentUserID(c),
		Role:   middlewares.CurrentRole(c),
	}
}
