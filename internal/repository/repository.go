package repository

import "gorm.io/gorm"

// ListParams paging and ordering for list queries.
// OrderBy must come from a column whitelist, never from raw input.
type ListParams struct {
	Offset  int
	Limit   int
	OrderBy string
	Search  string
}

// Repository aggregate of all repositories
type Repository struct {
	User             UserRepository
	Classroom        ClassroomRepository
	ClassroomStudent ClassroomStudentRepository
	JoinRequest      JoinRequestRepository
	Lecture          LectureRepository
	Media            MediaRepository
	Otp              OtpRepository
	RefreshToken     RefreshTokenRepository
}

// NewRepository builds every repository on the same connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		Classroom:        NewClassroomRepo(db),
		ClassroomStudent: NewClassroomStudentRepo(db),
		JoinRequest:      NewJoinRequestRepo(db),
		Lecture:          NewLectureRepo(db),
		Media:            NewMediaRepo(db),
		Otp:              NewOtpRepo(db),
		RefreshToken:     NewRefreshTokenRepo(db),
	}
}

func likePattern(s string) string {
	return "%" + s + "%"
}

func paginate(db *gorm.DB, p ListParams) *gorm.DB {
	if p.OrderBy != "" {
		db = db.Order(p.OrderBy)
	}
	return db.Offset(p.Offset).Limit(p.Limit)
}
