package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Fundraiser{},
		&Participant{},
		&Item{},
		&OptionGroup{},
		&Option{},
		&ItemVariant{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	)
}
