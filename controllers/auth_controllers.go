package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type AuthController struct {
	Staff  *services.StaffService
	Tokens *utils.TokenIssuer
}

func NewAuthController(staff *services.StaffService, tokens *utils.TokenIssuer) *AuthController {
	return &AuthController{Staff: staff, Tokens: tokens}
}

// Login -> cek username & password lalu kembalikan JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	staff, err := ac.Staff.FindStaffByCredentials(c.Request.Context(), input.Username, input.Password)
	if errors.Is(err, services.ErrStaffNotFound) {
		utils.InfoLogger.WithField("username", input.Username).Warn("Failed login attempt")
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := ac.Tokens.GenerateToken(staff.ID, staff.Username, string(staff.Role))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Staff %s logged in (role=%s)", staff.Username, staff.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"staff": staff,
	})
}

// Logout revokes the token used for this request.
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.CtxToken)
	ac.Tokens.Revoke(token)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AuthController) Me(c *gin.Context) {
	staff, err := ac.Staff.GetStaff(c.Request.Context(), currentStaffID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current staff", staff)
}
