package model

// Media visibility
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Media stored file metadata; the bytes live in object storage under Bucket/ObjectKey
type Media struct {
	SoftDeleteModel
	FileName   string `gorm:"type:varchar(255);not null" json:"fileName"`
	ObjectKey  string `gorm:"type:varchar(512);not null" json:"objectKey"`
	Bucket     string `gorm:"type:varchar(100);not null" json:"bucket"`
	MimeType   string `gorm:"type:varchar(100);not null" json:"mimeType"`
	Size       int64  `gorm:"not null;default:0"         json:"size"`
	Visibility string `gorm:"type:varchar(10);not null;default:'private'" json:"visibility"`
	UploadedBy uint   `gorm:"not null"                   json:"uploadedBy"`
}

// TableName table name
func (Media) TableName() string { return "media" }

// IsPublic reports whether anyone may download the file
func (m *Media) IsPublic() bool { return m.Visibility == VisibilityPublic }
