package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/dto"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

type mediaFixture struct {
	svc   MediaService
	m     *mocks
	store *mockStorage
}

func setupTestMediaService() *mediaFixture {
	repo, m := newMocks()
	store := newMockStorage()
	cfg := &config.StorageConfig{MaxUploadBytes: 1024, PresignTTL: 10 * time.Minute}
	return &mediaFixture{svc: NewMediaService(repo, store, cfg, zap.NewNop()), m: m, store: store}
}

func (f *mediaFixture) upload(t *testing.T, owner uint, name, body, visibility string) *dto.MediaResponse {
	t.Helper()
	resp, err := f.svc.Upload(context.Background(), owner, &UploadFile{
		FileName: name, Size: int64(len(body)), ContentType: "", Reader: strings.NewReader(body),
	}, visibility)
	if err != nil {
		t.Fatalf("Upload %s: %v", name, err)
	}
	return resp
}

func TestMedia_Upload(t *testing.T) {
	f := setupTestMediaService()

	md := f.upload(t, 3, "../notes v1.pdf", "hello", "")
	if md.FileName != "notes_v1.pdf" {
		t.Errorf("expected sanitized name, got %q", md.FileName)
	}
	if md.Visibility != model.VisibilityPrivate {
		t.Errorf("expected private by default, got %s", md.Visibility)
	}
	if md.MimeType != "application/pdf" {
		t.Errorf("expected mime from extension, got %s", md.MimeType)
	}
	if !strings.HasPrefix(md.ObjectKey, "3/") || !strings.HasSuffix(md.ObjectKey, "/notes_v1.pdf") {
		t.Errorf("unexpected object key %s", md.ObjectKey)
	}
	if string(f.store.objects[md.ObjectKey]) != "hello" {
		t.Error("object bytes should be stored")
	}
	if md.Bucket != "test-bucket" {
		t.Errorf("expected bucket recorded, got %s", md.Bucket)
	}
}

func TestMedia_UploadLimits(t *testing.T) {
	f := setupTestMediaService()

	_, err := f.svc.Upload(context.Background(), 3, &UploadFile{FileName: "a.txt", Size: 0, Reader: strings.NewReader("")}, "")
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
	_, err = f.svc.Upload(context.Background(), 3, &UploadFile{FileName: "a.txt", Size: 2048, Reader: strings.NewReader("x")}, "")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
	if len(f.store.objects) != 0 {
		t.Error("rejected uploads must not reach storage")
	}
}

func TestMedia_SoftDeleteAuthorization(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")

	err := f.svc.SoftDelete(context.Background(), 4, model.RoleStudent, md.ID)
	if !errors.Is(err, ErrMediaForbidden) {
		t.Fatalf("other user: expected ErrMediaForbidden, got %v", err)
	}
	if appErr, _ := apperr.As(err); appErr.Status != http.StatusForbidden {
		t.Errorf("expected 403, got %d", appErr.Status)
	}

	if err := f.svc.SoftDelete(context.Background(), 3, model.RoleStudent, md.ID); err != nil {
		t.Fatalf("owner SoftDelete: %v", err)
	}
	if !f.m.media.rows[md.ID].IsDeleted() {
		t.Error("media should be soft deleted")
	}
	if _, ok := f.store.objects[md.ObjectKey]; !ok {
		t.Error("soft delete keeps the object")
	}
}

func TestMedia_SoftDeleteByAdmin(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")

	if err := f.svc.SoftDelete(context.Background(), 1, model.RoleAdmin, md.ID); err != nil {
		t.Errorf("admin SoftDelete: %v", err)
	}
}

func TestMedia_SoftDeleteInUse(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "avatar.png", "x", "")
	f.m.media.inUse[md.ID] = true

	err := f.svc.SoftDelete(context.Background(), 3, model.RoleStudent, md.ID)
	if !errors.Is(err, ErrMediaInUse) {
		t.Fatalf("expected ErrMediaInUse, got %v", err)
	}
	if appErr, _ := apperr.As(err); appErr.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.Status)
	}
	if f.m.media.rows[md.ID].IsDeleted() {
		t.Error("media in use must not be deleted")
	}
}

func TestMedia_CheckOrder(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")
	f.m.media.inUse[md.ID] = true

	// missing beats everything, forbidden beats in-use
	if err := f.svc.SoftDelete(context.Background(), 3, model.RoleStudent, 999); !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("expected ErrMediaNotFound, got %v", err)
	}
	if err := f.svc.SoftDelete(context.Background(), 4, model.RoleStudent, md.ID); !errors.Is(err, ErrMediaForbidden) {
		t.Errorf("expected ErrMediaForbidden, got %v", err)
	}
}

func TestMedia_HardDeleteRemovesObject(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")
	_ = f.svc.SoftDelete(context.Background(), 3, model.RoleStudent, md.ID)

	if err := f.svc.HardDelete(context.Background(), 3, model.RoleStudent, md.ID); err != nil {
		t.Fatalf("HardDelete: %v", err)
	}
	if _, ok := f.m.media.rows[md.ID]; ok {
		t.Error("row should be gone")
	}
	if _, ok := f.store.objects[md.ObjectKey]; ok {
		t.Error("object should be gone")
	}
}

func TestMedia_Restore(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")

	if _, err := f.svc.Restore(context.Background(), 3, model.RoleStudent, md.ID); !errors.Is(err, ErrMediaNotDeleted) {
		t.Errorf("expected ErrMediaNotDeleted, got %v", err)
	}

	_ = f.svc.SoftDelete(context.Background(), 3, model.RoleStudent, md.ID)
	if _, err := f.svc.Restore(context.Background(), 4, model.RoleStudent, md.ID); !errors.Is(err, ErrMediaForbidden) {
		t.Errorf("expected ErrMediaForbidden, got %v", err)
	}
	restored, err := f.svc.Restore(context.Background(), 3, model.RoleStudent, md.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("restored media should have no deletedAt")
	}
}

func TestMedia_ReadAccess(t *testing.T) {
	f := setupTestMediaService()
	private := f.upload(t, 3, "private.txt", "x", model.VisibilityPrivate)
	public := f.upload(t, 3, "public.txt", "y", model.VisibilityPublic)

	if _, err := f.svc.Get(context.Background(), 4, model.RoleStudent, private.ID); !errors.Is(err, ErrMediaForbidden) {
		t.Errorf("private media: expected ErrMediaForbidden, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), 4, model.RoleStudent, public.ID); err != nil {
		t.Errorf("public media readable by anyone: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), 1, model.RoleAdmin, private.ID); err != nil {
		t.Errorf("admin reads private media: %v", err)
	}

	body, meta, err := f.svc.Download(context.Background(), 4, model.RoleStudent, public.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "y" || meta.FileName != "public.txt" {
		t.Errorf("unexpected download %q %+v", data, meta)
	}

	link, err := f.svc.DownloadURL(context.Background(), 3, model.RoleStudent, private.ID)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if !strings.Contains(link.URL, private.ObjectKey) || link.ExpiresAt.IsZero() {
		t.Errorf("unexpected link %+v", link)
	}
}

func TestMedia_AnonymousReadsOnlyPublic(t *testing.T) {
	f := setupTestMediaService()
	private := f.upload(t, 3, "private.txt", "x", model.VisibilityPrivate)
	public := f.upload(t, 3, "public.txt", "y", model.VisibilityPublic)

	if _, err := f.svc.Get(context.Background(), 0, "", private.ID); !errors.Is(err, ErrMediaForbidden) {
		t.Errorf("anonymous private read: expected ErrMediaForbidden, got %v", err)
	}
	if _, err := f.svc.DownloadURL(context.Background(), 0, "", public.ID); err != nil {
		t.Errorf("anonymous public link: %v", err)
	}
	body, _, err := f.svc.Download(context.Background(), 0, "", public.ID)
	if err != nil {
		t.Fatalf("anonymous public download: %v", err)
	}
	body.Close()
}

func TestMedia_UpdateVisibility(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")

	if _, err := f.svc.UpdateVisibility(context.Background(), 4, model.RoleStudent, md.ID, model.VisibilityPublic); !errors.Is(err, ErrMediaForbidden) {
		t.Errorf("expected ErrMediaForbidden, got %v", err)
	}
	updated, err := f.svc.UpdateVisibility(context.Background(), 3, model.RoleStudent, md.ID, model.VisibilityPublic)
	if err != nil {
		t.Fatalf("UpdateVisibility: %v", err)
	}
	if updated.Visibility != model.VisibilityPublic {
		t.Errorf("expected public, got %s", updated.Visibility)
	}
}

func TestMedia_Rename(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")

	renamed, err := f.svc.Rename(context.Background(), 3, model.RoleStudent, md.ID, "b.txt")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if renamed.FileName != "b.txt" || !strings.HasSuffix(renamed.ObjectKey, "/b.txt") {
		t.Errorf("unexpected rename result %+v", renamed)
	}
	if _, ok := f.store.objects[renamed.ObjectKey]; !ok {
		t.Error("object should live under the new key")
	}
	if _, ok := f.store.objects[md.ObjectKey]; ok {
		t.Error("old key should be gone")
	}
}

func TestMedia_RenameStorageFailureKeepsRow(t *testing.T) {
	f := setupTestMediaService()
	md := f.upload(t, 3, "a.txt", "x", "")
	f.store.renameErr = errBoom

	_, err := f.svc.Rename(context.Background(), 3, model.RoleStudent, md.ID, "b.txt")
	if !errors.Is(err, ErrStorageFailed) {
		t.Fatalf("expected ErrStorageFailed, got %v", err)
	}
	row := f.m.media.rows[md.ID]
	if row.FileName != "a.txt" || row.ObjectKey != md.ObjectKey {
		t.Errorf("row must be unchanged, got %+v", row)
	}
}

func TestMedia_ListScopedToOwner(t *testing.T) {
	f := setupTestMediaService()
	f.upload(t, 3, "a.txt", "x", "")
	f.upload(t, 4, "b.txt", "y", "")

	mine, total, err := f.svc.List(context.Background(), 3, model.RoleStudent, &dto.MediaListQuery{UploadedBy: 4})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || mine[0].UploadedBy != 3 {
		t.Errorf("student sees only own media, got %+v", mine)
	}

	all, total, _ := f.svc.List(context.Background(), 1, model.RoleAdmin, &dto.MediaListQuery{})
	if total != 2 || len(all) != 2 {
		t.Errorf("admin sees all media, got %d", total)
	}
}
