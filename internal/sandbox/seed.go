package sandbox

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-employee-console/internal/model"
)

// Default admin credentials created by Seed.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
)

var defaultRoles = []string{"Admin", "Manager", "Employee"}

// defaultGeography maps country → state → cities.
var defaultGeography = []struct {
	Country string
	States  map[string][]string
}{
	{Country: "India", States: map[string][]string{
		"Gujarat":     {"Ahmedabad", "Surat"},
		"Maharashtra": {"Mumbai", "Pune"},
	}},
	{Country: "United States", States: map[string][]string{
		"California": {"Los Angeles", "San Francisco"},
	}},
}

var defaultSettings = map[string]string{
	"theme":         "light",
	"language":      "English",
	"notifications": "true",
	"timezone":      "GMT+5:30",
}

// Seed creates the default roles, geography, settings and admin account if
// they don't exist.
func (s *Store) Seed(ctx context.Context, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	db := s.db.WithContext(ctx)

	var adminRole Role
	for _, name := range defaultRoles {
		role := Role{Name: name}
		if err := db.Where(Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		if name == "Admin" {
			adminRole = role
		}
	}

	var india Country
	for _, g := range defaultGeography {
		country := Country{Name: g.Country}
		if err := db.Where(Country{Name: g.Country}).FirstOrCreate(&country).Error; err != nil {
			return err
		}
		if g.Country == "India" {
			india = country
		}
		for stateName, cities := range g.States {
			state := State{Name: stateName, CountryID: country.ID}
			if err := db.Where(State{Name: stateName, CountryID: country.ID}).FirstOrCreate(&state).Error; err != nil {
				return err
			}
			for _, cityName := range cities {
				city := City{Name: cityName, StateID: state.ID}
				if err := db.Where(City{Name: cityName, StateID: state.ID}).FirstOrCreate(&city).Error; err != nil {
					return err
				}
			}
		}
	}

	for key, value := range defaultSettings {
		setting := Setting{Key: key, Value: value}
		if err := db.Where(Setting{Key: key}).FirstOrCreate(&setting).Error; err != nil {
			return err
		}
	}

	var admin Account
	err := db.Where("email = ?", AdminEmail).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	_, err = s.Register(ctx, model.RegisterRequest{
		FName:     "Master",
		LName:     "Administrator",
		Email:     AdminEmail,
		Mobile:    "0000000000",
		RoleID:    model.ID(adminRole.ID),
		CountryID: model.ID(india.ID),
		Password:  AdminPassword,
	})
	if err != nil {
		return err
	}
	log.Info("admin account created", zap.String("email", AdminEmail))
	return nil
}
