package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

// ── model → dto ──

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Phone:           u.Phone,
		Bio:             u.Bio,
		Role:            u.Role,
		IsActive:        u.IsActive,
		AvatarID:        u.AvatarID,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

func toClassroomResponse(c *model.Classroom) dto.ClassroomResponse {
	return dto.ClassroomResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		CoverMediaID: c.CoverMediaID,
		IsArchived:   c.IsArchived,
		CreatedBy:    c.CreatedBy,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		DeletedAt:    deletedAtPtr(c.DeletedAt),
	}
}

func toClassroomBrief(c *model.Classroom) *dto.ClassroomBrief {
	if c == nil {
		return nil
	}
	return &dto.ClassroomBrief{ID: c.ID, Name: c.Name, IsArchived: c.IsArchived}
}

func toMemberResponse(m *model.ClassroomStudent) dto.MemberResponse {
	return dto.MemberResponse{
		ID:          m.ID,
		ClassroomID: m.ClassroomID,
		StudentID:   m.StudentID,
		IsActive:    m.IsActive,
		JoinedAt:    m.JoinedAt,
		Student:     toUserBrief(m.Student),
	}
}

func toJoinRequestResponse(r *model.JoinRequest) dto.JoinRequestResponse {
	return dto.JoinRequestResponse{
		ID:          r.ID,
		StudentID:   r.StudentID,
		ClassroomID: r.ClassroomID,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		HandledAt:   r.HandledAt,
		Student:     toUserBrief(r.Student),
		Classroom:   toClassroomBrief(r.Classroom),
	}
}

func toLectureResponse(l *model.Lecture) dto.LectureResponse {
	return dto.LectureResponse{
		ID:          l.ID,
		ClassroomID: l.ClassroomID,
		ParentID:    l.ParentID,
		Title:       l.Title,
		Content:     l.Content,
		MediaID:     l.MediaID,
		OrderIndex:  l.OrderIndex,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toMediaResponse(m *model.Media) dto.MediaResponse {
	return dto.MediaResponse{
		ID:         m.ID,
		FileName:   m.FileName,
		ObjectKey:  m.ObjectKey,
		Bucket:     m.Bucket,
		MimeType:   m.MimeType,
		Size:       m.Size,
		Visibility: m.Visibility,
		UploadedBy: m.UploadedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  deletedAtPtr(m.DeletedAt),
	}
}

func deletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// optionalID maps 0 to nil so update requests can clear a nullable reference
func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
