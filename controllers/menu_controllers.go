package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{Menus: menus}
}

type menuRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"` // hanya saat membuat menu, update lewat PATCH /stock
	Available   *bool           `json:"available"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
}

func (r menuRequest) toModel() (models.Menu, error) {
	category, err := models.ParseMenuCategory(r.Category)
	if err != nil {
		return models.Menu{}, err
	}
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return models.Menu{
		Name:        r.Name,
		Category:    category,
		Price:       r.Price,
		Stock:       r.Stock,
		Available:   models.Flag(available),
		Description: r.Description,
		ImagePath:   r.ImagePath,
	}, nil
}

// GetMenus -> daftar menu, filter ?category= & ?available=true & ?min_stock=
func (mc *MenuController) GetMenus(c *gin.Context) {
	var f services.MenuFilter
	if raw := c.Query("category"); raw != "" {
		cat, err := models.ParseMenuCategory(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		f.Category = &cat
	}
	available, err := queryBool(c, "available")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	f.OnlyAvailable = available != nil && *available
	if raw := c.Query("min_stock"); raw != "" {
		if f.MinStock, err = strconv.Atoi(raw); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	menus, err := mc.Menus.ListMenus(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

func (mc *MenuController) GetMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	menu, err := mc.Menus.GetMenu(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	menu, err := req.toModel()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	saved, err := mc.Menus.SaveMenu(c.Request.Context(), menu)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", saved)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	menu, err := req.toModel()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	menu.ID = id

	saved, err := mc.Menus.SaveMenu(c.Request.Context(), menu)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", saved)
}

// UpdateStock -> stok opname: set stok absolut, optional flag tersedia
func (mc *MenuController) UpdateStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Stock     *int  `json:"stock" binding:"required"`
		Available *bool `json:"available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := mc.Menus.SetStock(c.Request.Context(), id, *body.Stock, body.Available)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock updated", menu)
}

func (mc *MenuController) LowStock(c *gin.Context) {
	threshold := 5
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		threshold = n
	}
	menus, err := mc.Menus.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock menus", menus)
}

func (mc *MenuController) GetIngredients(c *gin.Context) {
	list, err := mc.Menus.ListIngredients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", list)
}

func (mc *MenuController) CreateIngredient(c *gin.Context) {
	var req struct {
		Name     string          `json:"name" binding:"required"`
		Unit     string          `json:"unit" binding:"required"`
		Quantity decimal.Decimal `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ing, err := mc.Menus.CreateIngredient(c.Request.Context(), models.Ingredient{Name: req.Name, Unit: req.Unit, Quantity: req.Quantity})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Ingredient created", ing)
}

// GetMenuIngredients -> resep: bahan yang dipakai satu porsi menu
func (mc *MenuController) GetMenuIngredients(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	links, err := mc.Menus.MenuIngredients(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu ingredients", links)
}

func (mc *MenuController) SetMenuIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		IngredientID   uint            `json:"ingredient_id" binding:"required"`
		AmountRequired decimal.Decimal `json:"amount_required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	link, err := mc.Menus.SetMenuIngredient(c.Request.Context(), id, body.IngredientID, body.AmountRequired)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu ingredient saved", link)
}

func (mc *MenuController) DeleteMenuIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ingredientID, ok := paramID(c, "ingredient_id")
	if !ok {
		return
	}

	deleted, err := mc.Menus.DeleteMenuIngredient(c.Request.Context(), id, ingredientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu ingredient removed", nil)
}
