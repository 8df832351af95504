package models

// All lists every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&AdminUser{},
		&Category{},
		&MenuItem{},
		&Promo{},
		&PromoPoster{},
		&Subscriber{},
	}
}
