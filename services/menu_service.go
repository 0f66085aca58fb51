package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/realtime"
	"github.com/yeremiapane/resto-pos/utils"
	"gorm.io/gorm"
)

type MenuFilter struct {
	Category      *models.MenuCategory
	OnlyAvailable bool
	MinStock      int
}

type MenuService struct {
	uow      *UnitOfWork
	stock    *StockLedger
	notifier realtime.Notifier
	activity *ActivityLogger
}

func NewMenuService(uow *UnitOfWork, stock *StockLedger, notifier realtime.Notifier, activity *ActivityLogger) *MenuService {
	return &MenuService{uow: uow, stock: stock, notifier: notifier, activity: activity}
}

func validateMenu(m *models.Menu) error {
	m.Name = strings.TrimSpace(m.Name)
	switch {
	case m.Name == "":
		return invalidArg("menu name is required")
	case !m.Category.Valid():
		return invalidArg("unknown menu category %q", m.Category)
	case m.Price.IsNegative():
		return invalidArg("price must not be negative")
	case m.Stock < 0:
		return invalidArg("stock must not be negative")
	}
	return nil
}

// menuEditable lists the columns an update may touch. Stock is owned by the
// stock ledger and only changes through orders or SetStock.
var menuEditable = []string{"name", "category", "price", "available", "description", "image_path", "added_on", "updated_at"}

// SaveMenu inserts the menu when ID is zero and updates its details
// otherwise. On update the Stock field is ignored.
func (s *MenuService) SaveMenu(ctx context.Context, menu models.Menu) (*models.Menu, error) {
	if err := validateMenu(&menu); err != nil {
		return nil, err
	}

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		action := "create_menu"
		if menu.ID == 0 {
			if menu.AddedOn.IsZero() {
				menu.AddedOn = now()
			}
			if err := tx.Create(&menu).Error; err != nil {
				return err
			}
		} else {
			var existing models.Menu
			if err := tx.First(&existing, menu.ID).Error; err != nil {
				return notFound(err, ErrMenuNotFound)
			}
			if menu.AddedOn.IsZero() {
				menu.AddedOn = existing.AddedOn
			}
			if err := tx.Model(&existing).Select(menuEditable).Updates(&menu).Error; err != nil {
				return err
			}
			if err := tx.First(&menu, menu.ID).Error; err != nil {
				return err
			}
			action = "update_menu"
		}
		return s.activity.Record(tx, action, "menu", menu.ID, "%s @ %s, stock %d", menu.Name, utils.FormatRupiah(menu.Price), menu.Stock)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"menu_id": menu.ID, "name": menu.Name}).Info("Menu saved")
	s.notifier.Notify(realtime.StockChanged())
	return &menu, nil
}

func (s *MenuService) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.uow.DB(ctx).First(&menu, id).Error; err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}
	return &menu, nil
}

func (s *MenuService) ListMenus(ctx context.Context, f MenuFilter) ([]models.Menu, error) {
	q := s.uow.DB(ctx).Order("category, name")
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.OnlyAvailable {
		q = q.Where("available = ? AND stock > 0", models.Flag(true))
	}
	if f.MinStock > 0 {
		q = q.Where("stock >= ?", f.MinStock)
	}
	var menus []models.Menu
	return menus, q.Find(&menus).Error
}

// SetStock delegates to the stock ledger.
func (s *MenuService) SetStock(ctx context.Context, id uint, stock int, available *bool) (*models.Menu, error) {
	return s.stock.SetStock(ctx, id, stock, available)
}

func (s *MenuService) CreateIngredient(ctx context.Context, ing models.Ingredient) (*models.Ingredient, error) {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" || ing.Unit == "" {
		return nil, invalidArg("ingredient name and unit are required")
	}
	if ing.Quantity.IsNegative() {
		return nil, invalidArg("ingredient quantity must not be negative")
	}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&ing).Error; err != nil {
			return duplicate(err, "ingredient "+ing.Name)
		}
		return s.activity.Record(tx, "create_ingredient", "ingredient", ing.ID, "%s %s %s", ing.Name, ing.Quantity, ing.Unit)
	})
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *MenuService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var list []models.Ingredient
	return list, s.uow.DB(ctx).Order("name").Find(&list).Error
}

// SetMenuIngredient creates or updates the recipe link between a menu and
// an ingredient.
func (s *MenuService) SetMenuIngredient(ctx context.Context, menuID, ingredientID uint, amount decimal.Decimal) (*models.MenuIngredient, error) {
	if !amount.IsPositive() {
		return nil, invalidArg("amount required must be positive")
	}

	link := models.MenuIngredient{MenuID: menuID, IngredientID: ingredientID, AmountRequired: amount}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.First(&menu, menuID).Error; err != nil {
			return notFound(err, ErrMenuNotFound)
		}
		var ing models.Ingredient
		if err := tx.First(&ing, ingredientID).Error; err != nil {
			return notFound(err, ErrIngredientNotFound)
		}
		if err := tx.Save(&link).Error; err != nil {
			return err
		}
		link.Ingredient = &ing
		return s.activity.Record(tx, "set_recipe", "menu", menuID, "%s needs %s %s", ing.Name, amount, ing.Unit)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *MenuService) MenuIngredients(ctx context.Context, menuID uint) ([]models.MenuIngredient, error) {
	if _, err := s.GetMenu(ctx, menuID); err != nil {
		return nil, err
	}
	var links []models.MenuIngredient
	err := s.uow.DB(ctx).Preload("Ingredient").Where("menu_id = ?", menuID).Find(&links).Error
	return links, err
}

// DeleteMenuIngredient reports false when the link did not exist.
func (s *MenuService) DeleteMenuIngredient(ctx context.Context, menuID, ingredientID uint) (bool, error) {
	var deleted bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		res := tx.Where("menu_id = ? AND ingredient_id = ?", menuID, ingredientID).Delete(&models.MenuIngredient{})
		if res.Error != nil {
			return res.Error
		}
		if deleted = res.RowsAffected > 0; !deleted {
			return nil
		}
		return s.activity.Record(tx, "remove_recipe", "menu", menuID, "ingredient %d", ingredientID)
	})
	return deleted, err
}

// LowStock lists menus whose stock is at or under threshold, for the
// kitchen's restock list.
func (s *MenuService) LowStock(ctx context.Context, threshold int) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.uow.DB(ctx).Where("stock <= ?", threshold).Order("stock, name").Find(&menus).Error
	return menus, err
}

