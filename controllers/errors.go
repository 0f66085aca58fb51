package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInsufficientPayment),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrNotReadyForPayment),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrTableNotEmpty),
		errors.Is(err, services.ErrDuplicateKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("Internal error: %v", err)
	}
	utils.RespondError(c, code, err)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	id := uint(v)
	return &id, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}

// queryDate reads ?date=YYYY-MM-DD in local time; missing means today.
func queryDate(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

// currentStaffID is the staff member from the session token, or 0.
func currentStaffID(c *gin.Context) uint {
	if v, ok := c.Get(middlewares.CtxStaffID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func currentRole(c *gin.Context) models.Role {
	role, _ := models.ParseRole(c.GetString(middlewares.CtxRole))
	return role
}

func hasRole(c *gin.Context, roles ...models.Role) bool {
	role := currentRole(c)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// actingStaffID is the staff member a write is recorded under. Only the
// owner may record on behalf of someone else.
func actingStaffID(c *gin.Context, requested uint) uint {
	if requested != 0 && currentRole(c) == models.RoleOwner {
		return requested
	}
	return currentStaffID(c)
}
