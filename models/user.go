package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"gorm.io/gorm"
)

// User is a trading party: a tyre supplier (Company) or a buyer (Customer).
// Names are stored normalized; they are the join key into ledgers and
// details snapshots.
type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Mobile    string    `gorm:"size:20;not null" json:"mobile" binding:"required"`
	Address   string    `gorm:"size:255;not null" json:"address" binding:"required"`
	UserType  UserType  `gorm:"type:enum('Customer','Company');not null;index" json:"user_type" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required"`
	Mobile   string   `json:"mobile" binding:"required"`
	Address  string   `json:"address" binding:"required"`
	UserType UserType `json:"user_type" binding:"required"`
}

// NormalizedName applies the party naming rules: companies collapse to
// lowercase with no whitespace, customers keep inner spaces.
func (input *NewUser) NormalizedName() string {
	if input.UserType == UserTypeCompany {
		return utils.NormalizeCompanyName(input.Name)
	}
	return utils.NormalizeCustomerName(input.Name)
}

func (input *NewUser) validate(ctx context.Context, id int) error {
	if !input.UserType.IsValid() {
		return errors.New("user type must be Customer or Company")
	}
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("name is required")
	}
	if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
		return errors.New("mobile number is not valid")
	}
	if id > 0 {
		if err := utils.ValidateResourceId[User](ctx, id); err != nil {
			return err
		}
	}
	// unique normalized name within the party type
	var count int64
	db := config.GetDB()
	q := db.WithContext(ctx).Model(&User{}).
		Where("name = ? AND user_type = ?", input.NormalizedName(), input.UserType)
	if id > 0 {
		q = q.Where("NOT id = ?", id)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate name")
	}
	return nil
}

// CreateUser stores the party and seeds its zeroed details snapshot in the
// same transaction.
func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	user := User{
		Name:     input.NormalizedName(),
		Mobile:   strings.ToLower(input.Mobile),
		Address:  strings.ToLower(input.Address),
		UserType: input.UserType,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		today := utils.Today()
		if user.UserType == UserTypeCompany {
			return tx.Create(&CompanyDetail{CompanyName: user.Name, Date: today}).Error
		}
		return tx.Create(&CustomerDetail{CustomerName: user.Name, Date: today}).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = input.NormalizedName()
	user.Mobile = strings.ToLower(input.Mobile)
	user.Address = strings.ToLower(input.Address)
	user.UserType = input.UserType

	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns parties sorted by name, optionally narrowed to one type
// and a search term over name/mobile/address.
func ListUsers(ctx context.Context, userType UserType, search string) ([]*User, error) {
	db := config.GetDB()

	q := db.WithContext(ctx).Model(&User{}).Order("name ASC")
	if userType != "" {
		q = q.Where("user_type = ?", userType)
	}
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR mobile LIKE ? OR address LIKE ?", like, like, like)
	}

	var users []*User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// PhoneDirectory maps normalized party name to mobile for one party type.
// Dues reports join phone numbers through it.
func PhoneDirectory(ctx context.Context, userType UserType) (map[string]string, error) {
	users, err := ListUsers(ctx, userType, "")
	if err != nil {
		return nil, err
	}
	directory := make(map[string]string, len(users))
	for _, u := range users {
		directory[strings.ToLower(u.Name)] = u.Mobile
	}
	return directory, nil
}
