package model

// Lecture node of a classroom's content tree
type Lecture struct {
	BaseModel
	ClassroomID uint    `gorm:"not null"                   json:"classroomId"`
	ParentID    *uint   `json:"parentId"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Content     *string `gorm:"type:text"                  json:"content,omitempty"`
	MediaID     *uint   `json:"mediaId,omitempty"`
	OrderIndex  int     `gorm:"not null;default:0"         json:"orderIndex"`
	IsPublished bool    `gorm:"not null;default:false"     json:"isPublished"`
}

// TableName table name
func (Lecture) TableName() string { return "lectures" }
