package model

// Classroom table classrooms
type Classroom struct {
	SoftDeleteModel
	Name         string  `gorm:"type:varchar(100);not null" json:"name"`
	Description  *string `gorm:"type:text"                  json:"description,omitempty"`
	CoverMediaID *uint   `json:"coverMediaId,omitempty"`
	IsArchived   bool    `gorm:"not null;default:false"     json:"isArchived"`
	CreatedBy    *uint   `json:"createdBy,omitempty"`
}

// TableName table name
func (Classroom) TableName() string { return "classrooms" }
