package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateStaffInput struct {
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	Password    string      `json:"password"`
}

type StaffService struct {
	uow      *UnitOfWork
	activity *ActivityLogger
}

func NewStaffService(uow *UnitOfWork, activity *ActivityLogger) *StaffService {
	return &StaffService{uow: uow, activity: activity}
}

// CreateStaff menambahkan pegawai baru. Username dibandingkan tanpa
// memperhatikan huruf besar/kecil.
func (s *StaffService) CreateStaff(ctx context.Context, in CreateStaffInput) (*models.Staff, error) {
	in.Username = strings.TrimSpace(in.Username)
	switch {
	case in.Username == "":
		return nil, invalidArg("username is required")
	case len(in.Password) < 6:
		return nil, invalidArg("password must be at least 6 characters")
	case !in.Role.Valid():
		return nil, invalidArg("unknown role %q", in.Role)
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := models.Staff{
		Username:     in.Username,
		DisplayName:  in.DisplayName,
		Role:         in.Role,
		Active:       true,
		PasswordHash: string(hash),
	}
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Staff{}).Where("LOWER(username) = ?", strings.ToLower(in.Username)).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return duplicate(gorm.ErrDuplicatedKey, "username "+in.Username)
		}
		if err := tx.Create(&staff).Error; err != nil {
			return duplicate(err, "username "+in.Username)
		}
		return s.activity.Record(tx, "create_staff", "staff", staff.ID, "%s as %s", staff.Username, staff.Role)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Staff %s created with role %s", staff.Username, staff.Role)
	return &staff, nil
}

func (s *StaffService) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.uow.DB(ctx).First(&staff, id).Error; err != nil {
		return nil, notFound(err, ErrStaffNotFound)
	}
	return &staff, nil
}

func (s *StaffService) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var list []models.Staff
	return list, s.uow.DB(ctx).Order("username").Find(&list).Error
}

// FindStaffByCredentials returns the active staff member whose username
// (any case) and password match. Every mismatch yields ErrStaffNotFound so
// callers cannot tell which part was wrong.
func (s *StaffService) FindStaffByCredentials(ctx context.Context, username, password string) (*models.Staff, error) {
	var staff models.Staff
	err := s.uow.DB(ctx).
		Where("LOWER(username) = ? AND active = ?", strings.ToLower(strings.TrimSpace(username)), models.Flag(true)).
		First(&staff).Error
	if err != nil {
		return nil, notFound(err, ErrStaffNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrStaffNotFound
	}
	return &staff, nil
}

func (s *StaffService) SetActive(ctx context.Context, id uint, active bool) (*models.Staff, error) {
	var staff models.Staff
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&staff, id).Error; err != nil {
			return notFound(err, ErrStaffNotFound)
		}
		if err := tx.Model(&staff).Update("active", models.Flag(active)).Error; err != nil {
			return err
		}
		staff.Active = models.Flag(active)
		return s.activity.Record(tx, "set_staff_active", "staff", id, "active=%t", active)
	})
	if err != nil {
		return nil, err
	}
	return &staff, nil
}
