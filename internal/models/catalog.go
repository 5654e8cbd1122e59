package models

// Tag labels recipes. Slug is optional but unique when present.
type Tag struct {
	ID    uint    `gorm:"primarykey" json:"id"`
	Name  string  `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Slug  *string `gorm:"size:200;uniqueIndex" json:"slug"`
	Color string  `gorm:"size:7" json:"color"`
}

// Ingredient is reference data. Names repeat across units, the pair does not.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit"`
}
