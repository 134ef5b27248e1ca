package models

// All returns every model managed by the schema migration, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&RecipeLike{},
		&Subscriber{},
	}
}
