package db

import (
	"github.com/hireloop-dev/hireloop/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, err
	}

	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
		&models.Notification{},
	}

	migrator := gdb.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := gdb.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
