package models

// Municipality maps a registry municipality id to its official code.
type Municipality struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Code string `gorm:"column:code;size:3"`
}

// TableName overrides the table name.
func (Municipality) TableName() string {
	return "municipalities"
}

// PostalCode maps a registry postal code id to its five digit code.
type PostalCode struct {
	ID   int    `gorm:"column:id;primaryKey"`
	Code string `gorm:"column:code;size:5"`
}

// TableName overrides the table name.
func (PostalCode) TableName() string {
	return "postal_codes"
}

// Street is a canonical street row.
type Street struct {
	ID             string `gorm:"column:id;primaryKey;size:36"`
	MunicipalityID int    `gorm:"column:municipality_id"`
	IsValid        bool   `gorm:"column:is_valid"`
	IsNonCanonical bool   `gorm:"column:is_non_canonical"`
}

// TableName overrides the table name.
func (Street) TableName() string {
	return "streets"
}

// StreetName is the name of a street in one language.
type StreetName struct {
	ID       int    `gorm:"column:id;primaryKey"`
	StreetID string `gorm:"column:street_id;size:36;index"`
	Language string `gorm:"column:language;size:2"`
	Name     string `gorm:"column:name"`
}

// TableName overrides the table name.
func (StreetName) TableName() string {
	return "street_names"
}

// StreetNumberRange is a numbered range of a street.
// Parity is stored as 1/2 by current writers and as "odd"/"even" by older ones.
type StreetNumberRange struct {
	ID           string `gorm:"column:id;primaryKey;size:36"`
	StreetID     string `gorm:"column:street_id;size:36;index"`
	StartNumber  int    `gorm:"column:start_number"`
	EndNumber    int    `gorm:"column:end_number"`
	Parity       string `gorm:"column:parity;size:4"`
	PostalCodeID *int   `gorm:"column:postal_code_id"`
	IsValid      bool   `gorm:"column:is_valid"`
}

// TableName overrides the table name.
func (StreetNumberRange) TableName() string {
	return "street_number_ranges"
}

// All lists every registry model, in migration order.
func All() []any {
	return []any{&Municipality{}, &PostalCode{}, &Street{}, &StreetName{}, &StreetNumberRange{}}
}
