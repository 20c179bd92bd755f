package service

import (
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/jwt"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/mailer"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/redis"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

// Service aggregate of all services
type Service struct {
	Auth             AuthService
	Profile          ProfileService
	User             UserService
	Classroom        ClassroomService
	ClassroomStudent ClassroomStudentService
	JoinRequest      JoinRequestService
	Lecture          LectureService
	Media            MediaService
	Export           ExportService
}

// NewService wires every service. rdb may be nil when redis is unavailable.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	mail mailer.Sender,
	store storage.Storage,
	logger *zap.Logger,
) *Service {
	var (
		blacklist TokenBlacklist
		throttle  OtpThrottle
	)
	if rdb != nil {
		blacklist = rdb
		throttle = rdb
	}

	return &Service{
		Auth:             NewAuthService(cfg, repo, jwtMgr, mail, blacklist, throttle, logger),
		Profile:          NewProfileService(repo, logger),
		User:             NewUserService(repo, logger),
		Classroom:        NewClassroomService(repo, logger),
		ClassroomStudent: NewClassroomStudentService(repo, logger),
		JoinRequest:      NewJoinRequestService(repo, logger),
		Lecture:          NewLectureService(repo, logger),
		Media:            NewMediaService(repo, store, &cfg.Storage, logger),
		Export:           NewExportService(repo, logger),
	}
}
