package config

import (
	"log"

	"fila-escolar/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedStaff creates demo staff members in dev mode when the directory is
// empty, so the request form has someone to offer.
func SeedStaff(db *gorm.DB, cfg *Config) error {
	if !cfg.IsDev() {
		return nil
	}

	var count int64
	if err := db.Model(&models.Staff{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	staff := []models.Staff{
		{Name: "Ana Souza", Subject: "Coordination"},
		{Name: "Carlos Lima", Subject: "Mathematics"},
		{Name: "Beatriz Ramos", Subject: "Secretary"},
	}
	for _, s := range staff {
		if err := db.Create(&s).Error; err != nil {
			return err
		}
		log.Printf("   Created staff: %s (%s)", s.Name, s.Subject)
	}

	log.Println("✅ Staff directory seeded")
	return nil
}
