package handler

import (
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/service"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

// Handler aggregate of all HTTP handlers
type Handler struct {
	Auth             *AuthHandler
	Profile          *ProfileHandler
	User             *UserHandler
	Classroom        *ClassroomHandler
	ClassroomStudent *ClassroomStudentHandler
	JoinRequest      *JoinRequestHandler
	Lecture          *LectureHandler
	Media            *MediaHandler
	Export           *ExportHandler
	// LocalFile is nil unless media lives on the local filesystem
	LocalFile *LocalFileHandler
}

// NewHandler wires handlers to services
func NewHandler(svc *service.Service, store storage.Storage, maxUploadBytes int64, logger *zap.Logger) *Handler {
	h := &Handler{
		Auth:             NewAuthHandler(svc.Auth),
		Profile:          NewProfileHandler(svc.Profile),
		User:             NewUserHandler(svc.User),
		Classroom:        NewClassroomHandler(svc.Classroom),
		ClassroomStudent: NewClassroomStudentHandler(svc.ClassroomStudent),
		JoinRequest:      NewJoinRequestHandler(svc.JoinRequest),
		Lecture:          NewLectureHandler(svc.Lecture),
		Media:            NewMediaHandler(svc.Media, maxUploadBytes, logger),
		Export:           NewExportHandler(svc.Export),
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		h.LocalFile = NewLocalFileHandler(local, logger)
	}
	return h
}
