package db_models

type Exhibit struct {
	ID              uint    `gorm:"primaryKey"`
	Slug            string  `gorm:"uniqueIndex;not null"`
	Title           string  `gorm:"not null"`
	TextMD          string  `gorm:"type:text;not null"`
	AudioPath       *string
	AudioTranscript *string
	MasterImage     *string
	OrderIndex      int `gorm:"index;not null"`

	Images    []Image    `gorm:"foreignKey:ExhibitID"`
	Questions []Question `gorm:"foreignKey:ExhibitID"`
	Events    []Event    `gorm:"foreignKey:ExhibitID"`
}

func (Exhibit) TableName() string { return "exhibits" }

type Image struct {
	ID        uint   `gorm:"primaryKey"`
	ExhibitID uint   `gorm:"index;not null"`
	Path      string `gorm:"not null"`
	AltText   string `gorm:"not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

func (Image) TableName() string { return "images" }
