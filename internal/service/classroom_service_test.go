package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
)

func setupTestClassroomService() (ClassroomService, *mocks) {
	repo, m := newMocks()
	return NewClassroomService(repo, zap.NewNop()), m
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestClassroom_Create(t *testing.T) {
	svc, _ := setupTestClassroomService()

	c, err := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "  Math 101 "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Math 101" || c.IsArchived {
		t.Errorf("unexpected classroom %+v", c)
	}
}

func TestClassroom_CreateDuplicateName(t *testing.T) {
	svc, _ := setupTestClassroomService()
	_, _ = svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})

	_, err := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})
	if !errors.Is(err, ErrClassroomNameExists) {
		t.Errorf("expected ErrClassroomNameExists, got %v", err)
	}
}

func TestClassroom_CreateUnknownCover(t *testing.T) {
	svc, _ := setupTestClassroomService()

	_, err := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math", CoverMediaID: uintPtr(9)})
	if !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestClassroom_UpdateClearsCover(t *testing.T) {
	svc, m := setupTestClassroomService()
	md := m.media.add(&model.Media{FileName: "cover.png", UploadedBy: 1})
	c, _ := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math", CoverMediaID: uintPtr(md.ID)})
	if c.CoverMediaID == nil {
		t.Fatal("cover should be set")
	}

	updated, err := svc.Update(context.Background(), c.ID, &dto.UpdateClassroomRequest{CoverMediaID: uintPtr(0)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CoverMediaID != nil {
		t.Errorf("cover should be cleared, got %v", *updated.CoverMediaID)
	}
	if updated.Name != "Math" {
		t.Errorf("name should be unchanged, got %s", updated.Name)
	}
}

func TestClassroom_UpdateRenameConflict(t *testing.T) {
	svc, _ := setupTestClassroomService()
	_, _ = svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})
	c, _ := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Physics"})

	_, err := svc.Update(context.Background(), c.ID, &dto.UpdateClassroomRequest{Name: strPtr("Math")})
	if !errors.Is(err, ErrClassroomNameExists) {
		t.Errorf("expected ErrClassroomNameExists, got %v", err)
	}
}

func TestClassroom_DeleteAndRestore(t *testing.T) {
	svc, _ := setupTestClassroomService()
	c, _ := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})

	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), c.ID); !errors.Is(err, ErrClassroomNotFound) {
		t.Errorf("deleted classroom should be hidden, got %v", err)
	}
	deleted, total, _ := svc.ListDeleted(context.Background(), &dto.PageQuery{})
	if total != 1 || deleted[0].ID != c.ID {
		t.Errorf("expected classroom in deleted list, got %+v", deleted)
	}

	restored, err := svc.Restore(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("restored classroom should have no deletedAt")
	}
	if _, err := svc.GetByID(context.Background(), c.ID); err != nil {
		t.Errorf("restored classroom should be visible: %v", err)
	}
}

func TestClassroom_RestoreLiveClassroom(t *testing.T) {
	svc, _ := setupTestClassroomService()
	c, _ := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})

	_, err := svc.Restore(context.Background(), c.ID)
	if !errors.Is(err, ErrClassroomNotDeleted) {
		t.Errorf("expected ErrClassroomNotDeleted, got %v", err)
	}
}

func TestClassroom_RestoreNameTaken(t *testing.T) {
	svc, _ := setupTestClassroomService()
	c, _ := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})
	_ = svc.Delete(context.Background(), c.ID)
	_, _ = svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})

	_, err := svc.Restore(context.Background(), c.ID)
	if !errors.Is(err, ErrClassroomNameExists) {
		t.Errorf("expected ErrClassroomNameExists, got %v", err)
	}
}

func TestClassroom_ArchiveCycle(t *testing.T) {
	svc, _ := setupTestClassroomService()
	c, _ := svc.Create(context.Background(), 1, &dto.CreateClassroomRequest{Name: "Math"})

	archived, err := svc.Archive(context.Background(), c.ID)
	if err != nil || !archived.IsArchived {
		t.Fatalf("Archive: %v %+v", err, archived)
	}
	if _, err := svc.Archive(context.Background(), c.ID); !errors.Is(err, ErrClassroomArchived) {
		t.Errorf("expected ErrClassroomArchived, got %v", err)
	}

	list, total, _ := svc.List(context.Background(), &dto.ClassroomListQuery{IsArchived: boolPtr(true)})
	if total != 1 || len(list) != 1 {
		t.Errorf("expected 1 archived classroom, got %d", total)
	}

	if _, err := svc.Unarchive(context.Background(), c.ID); err != nil {
		t.Fatalf("Unarchive: %v", err)
	}
	if _, err := svc.Unarchive(context.Background(), c.ID); !errors.Is(err, ErrClassroomNotArchived) {
		t.Errorf("expected ErrClassroomNotArchived, got %v", err)
	}
}
