package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/model"
	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/mailer"
	"github.com/XuanBac3105/do-an-server2-sub000/pkg/storage"
)

// mocks every in-memory fake behind a repository.Repository
type mocks struct {
	users      *mockUserRepo
	classrooms *mockClassroomRepo
	members    *mockMemberRepo
	requests   *mockJoinRequestRepo
	lectures   *mockLectureRepo
	media      *mockMediaRepo
	otps       *mockOtpRepo
	tokens     *mockRefreshTokenRepo
}

func newMocks() (*repository.Repository, *mocks) {
	m := &mocks{
		users:      &mockUserRepo{rows: map[uint]*model.User{}},
		classrooms: &mockClassroomRepo{rows: map[uint]*model.Classroom{}},
		members:    &mockMemberRepo{rows: map[uint]*model.ClassroomStudent{}},
		requests:   &mockJoinRequestRepo{rows: map[uint]*model.JoinRequest{}},
		lectures:   &mockLectureRepo{rows: map[uint]*model.Lecture{}},
		media:      &mockMediaRepo{rows: map[uint]*model.Media{}, inUse: map[uint]bool{}},
		otps:       &mockOtpRepo{},
		tokens:     &mockRefreshTokenRepo{rows: map[string]*model.RefreshToken{}},
	}
	repo := &repository.Repository{
		User:             m.users,
		Classroom:        m.classrooms,
		ClassroomStudent: m.members,
		JoinRequest:      m.requests,
		Lecture:          m.lectures,
		Media:            m.media,
		Otp:              m.otps,
		RefreshToken:     m.tokens,
	}
	return repo, m
}

func softDeleted() gorm.DeletedAt {
	return gorm.DeletedAt{Time: time.Now(), Valid: true}
}

func page[T any](all []T, p repository.ListParams) []T {
	if p.Offset >= len(all) {
		return nil
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[p.Offset:end]
}

// ── User ──

type mockUserRepo struct {
	rows   map[uint]*model.User
	nextID uint
	calls  int
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	m.calls++
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.rows[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	m.calls++
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, p repository.ListParams, role string) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.rows {
		if role != "" && u.Role != role {
			continue
		}
		if p.Search != "" && !strings.Contains(strings.ToLower(u.FullName+" "+u.Email), strings.ToLower(p.Search)) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, p), int64(len(all)), nil
}

// ── Classroom ──

type mockClassroomRepo struct {
	rows   map[uint]*model.Classroom
	nextID uint
}

func (m *mockClassroomRepo) add(c *model.Classroom) *model.Classroom {
	m.nextID++
	if c.ID == 0 {
		c.ID = m.nextID
	}
	m.rows[c.ID] = c
	return c
}

func (m *mockClassroomRepo) Create(_ context.Context, c *model.Classroom) error {
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id uint) (*model.Classroom, error) {
	if c, ok := m.rows[id]; ok && !c.IsDeleted() {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) GetByIDWithDeleted(_ context.Context, id uint) (*model.Classroom, error) {
	if c, ok := m.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) GetByName(_ context.Context, name string) (*model.Classroom, error) {
	for _, c := range m.rows {
		if c.Name == name && !c.IsDeleted() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) Update(_ context.Context, c *model.Classroom) error {
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *mockClassroomRepo) SoftDelete(_ context.Context, id uint) error {
	if c, ok := m.rows[id]; ok {
		c.DeletedAt = softDeleted()
	}
	return nil
}

func (m *mockClassroomRepo) Restore(_ context.Context, id uint) error {
	if c, ok := m.rows[id]; ok {
		c.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (m *mockClassroomRepo) List(_ context.Context, p repository.ListParams, f repository.ClassroomFilter) ([]model.Classroom, int64, error) {
	var all []model.Classroom
	for _, c := range m.rows {
		if c.IsDeleted() || (f.IsArchived != nil && c.IsArchived != *f.IsArchived) {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, p), int64(len(all)), nil
}

func (m *mockClassroomRepo) ListDeleted(_ context.Context, p repository.ListParams) ([]model.Classroom, int64, error) {
	var all []model.Classroom
	for _, c := range m.rows {
		if c.IsDeleted() {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, p), int64(len(all)), nil
}

// ── ClassroomStudent ──

type mockMemberRepo struct {
	rows   map[uint]*model.ClassroomStudent
	nextID uint
}

func (m *mockMemberRepo) Create(_ context.Context, c *model.ClassroomStudent) error {
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *mockMemberRepo) find(classroomID, studentID uint, withDeleted bool) *model.ClassroomStudent {
	for _, r := range m.rows {
		if r.ClassroomID == classroomID && r.StudentID == studentID && (withDeleted || !r.IsDeleted()) {
			return r
		}
	}
	return nil
}

func (m *mockMemberRepo) GetByPair(_ context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error) {
	if r := m.find(classroomID, studentID, false); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByPairWithDeleted(_ context.Context, classroomID, studentID uint) (*model.ClassroomStudent, error) {
	if r := m.find(classroomID, studentID, true); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) SetActive(_ context.Context, id uint, active bool) error {
	if r, ok := m.rows[id]; ok && !r.IsDeleted() {
		r.IsActive = active
	}
	return nil
}

func (m *mockMemberRepo) SoftDelete(_ context.Context, id uint) error {
	if r, ok := m.rows[id]; ok {
		r.DeletedAt = softDeleted()
	}
	return nil
}

func (m *mockMemberRepo) Restore(_ context.Context, id uint) error {
	if r, ok := m.rows[id]; ok {
		r.DeletedAt = gorm.DeletedAt{}
		r.IsActive = true
	}
	return nil
}

func (m *mockMemberRepo) IsActiveMember(_ context.Context, classroomID, studentID uint) (bool, error) {
	r := m.find(classroomID, studentID, false)
	return r != nil && r.IsActive, nil
}

func (m *mockMemberRepo) ListByClassroom(_ context.Context, classroomID uint, p repository.ListParams) ([]model.ClassroomStudent, int64, error) {
	var all []model.ClassroomStudent
	for _, r := range m.rows {
		if r.ClassroomID == classroomID && !r.IsDeleted() {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, p), int64(len(all)), nil
}

func (m *mockMemberRepo) ListActiveByClassroom(_ context.Context, classroomID uint) ([]model.ClassroomStudent, error) {
	var all []model.ClassroomStudent
	for _, r := range m.rows {
		if r.ClassroomID == classroomID && r.IsActive && !r.IsDeleted() {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *mockMemberRepo) ListActiveByStudent(_ context.Context, studentID uint) ([]model.ClassroomStudent, error) {
	var all []model.ClassroomStudent
	for _, r := range m.rows {
		if r.StudentID == studentID && r.IsActive && !r.IsDeleted() {
			all = append(all, *r)
		}
	}
	return all, nil
}

// live count of memberships for a pair, deleted rows excluded
func (m *mockMemberRepo) countLive(classroomID, studentID uint) int {
	n := 0
	for _, r := range m.rows {
		if r.ClassroomID == classroomID && r.StudentID == studentID && !r.IsDeleted() {
			n++
		}
	}
	return n
}

// ── JoinRequest ──

type mockJoinRequestRepo struct {
	rows   map[uint]*model.JoinRequest
	nextID uint
}

func (m *mockJoinRequestRepo) Create(_ context.Context, r *model.JoinRequest) error {
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.rows[r.ID] = &cp
	return nil
}

func (m *mockJoinRequestRepo) GetByID(_ context.Context, id uint) (*model.JoinRequest, error) {
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJoinRequestRepo) GetByPair(_ context.Context, studentID, classroomID uint) (*model.JoinRequest, error) {
	for _, r := range m.rows {
		if r.StudentID == studentID && r.ClassroomID == classroomID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJoinRequestRepo) Update(_ context.Context, r *model.JoinRequest) error {
	cp := *r
	m.rows[r.ID] = &cp
	return nil
}

func (m *mockJoinRequestRepo) DeleteByPair(_ context.Context, studentID, classroomID uint) error {
	for id, r := range m.rows {
		if r.StudentID == studentID && r.ClassroomID == classroomID {
			delete(m.rows, id)
		}
	}
	return nil
}

func (m *mockJoinRequestRepo) List(_ context.Context, p repository.ListParams, f repository.JoinRequestFilter) ([]model.JoinRequest, int64, error) {
	var all []model.JoinRequest
	for _, r := range m.rows {
		if (f.ClassroomID != 0 && r.ClassroomID != f.ClassroomID) ||
			(f.StudentID != 0 && r.StudentID != f.StudentID) ||
			(f.Status != "" && r.Status != f.Status) {
			continue
		}
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, p), int64(len(all)), nil
}

func (m *mockJoinRequestRepo) countPair(studentID, classroomID uint) int {
	n := 0
	for _, r := range m.rows {
		if r.StudentID == studentID && r.ClassroomID == classroomID {
			n++
		}
	}
	return n
}

// ── Lecture ──

type mockLectureRepo struct {
	rows   map[uint]*model.Lecture
	nextID uint
}

func (m *mockLectureRepo) Create(_ context.Context, l *model.Lecture) error {
	m.nextID++
	l.ID = m.nextID
	cp := *l
	m.rows[l.ID] = &cp
	return nil
}

func (m *mockLectureRepo) GetByID(_ context.Context, id uint) (*model.Lecture, error) {
	if l, ok := m.rows[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLectureRepo) Update(_ context.Context, l *model.Lecture) error {
	cp := *l
	m.rows[l.ID] = &cp
	return nil
}

func (m *mockLectureRepo) DeleteByIDs(_ context.Context, ids []uint) error {
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}

func (m *mockLectureRepo) ListByClassroom(_ context.Context, classroomID uint) ([]model.Lecture, error) {
	var all []model.Lecture
	for _, l := range m.rows {
		if l.ClassroomID == classroomID {
			all = append(all, *l)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].OrderIndex != all[j].OrderIndex {
			return all[i].OrderIndex < all[j].OrderIndex
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

// ── Media ──

type mockMediaRepo struct {
	rows   map[uint]*model.Media
	inUse  map[uint]bool
	nextID uint
}

func (m *mockMediaRepo) add(md *model.Media) *model.Media {
	if md.ID == 0 {
		m.nextID++
		md.ID = m.nextID
	}
	m.rows[md.ID] = md
	return md
}

func (m *mockMediaRepo) Create(_ context.Context, md *model.Media) error {
	m.nextID++
	md.ID = m.nextID
	cp := *md
	m.rows[md.ID] = &cp
	return nil
}

func (m *mockMediaRepo) GetByID(_ context.Context, id uint) (*model.Media, error) {
	if md, ok := m.rows[id]; ok && !md.IsDeleted() {
		cp := *md
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMediaRepo) GetByIDWithDeleted(_ context.Context, id uint) (*model.Media, error) {
	if md, ok := m.rows[id]; ok {
		cp := *md
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMediaRepo) Update(_ context.Context, md *model.Media) error {
	cp := *md
	m.rows[md.ID] = &cp
	return nil
}

func (m *mockMediaRepo) SoftDelete(_ context.Context, id uint) error {
	if md, ok := m.rows[id]; ok {
		md.DeletedAt = softDeleted()
	}
	return nil
}

func (m *mockMediaRepo) Restore(_ context.Context, id uint) error {
	if md, ok := m.rows[id]; ok {
		md.DeletedAt = gorm.DeletedAt{}
	}
	return nil
}

func (m *mockMediaRepo) HardDelete(_ context.Context, id uint) error {
	delete(m.rows, id)
	return nil
}

func (m *mockMediaRepo) IsInUse(_ context.Context, id uint) (bool, error) {
	return m.inUse[id], nil
}

func (m *mockMediaRepo) List(_ context.Context, p repository.ListParams, f repository.MediaFilter) ([]model.Media, int64, error) {
	var all []model.Media
	for _, md := range m.rows {
		if (!f.IncludeDeleted && md.IsDeleted()) ||
			(f.UploadedBy != 0 && md.UploadedBy != f.UploadedBy) ||
			(f.Visibility != "" && md.Visibility != f.Visibility) {
			continue
		}
		all = append(all, *md)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, p), int64(len(all)), nil
}

// ── Otp ──

type mockOtpRepo struct {
	rows   []*model.OtpRecord
	nextID uint
	calls  int
}

func (m *mockOtpRepo) Create(_ context.Context, o *model.OtpRecord) error {
	m.calls++
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	cp := *o
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *mockOtpRepo) GetLatest(_ context.Context, email, purpose string) (*model.OtpRecord, error) {
	m.calls++
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Email == email && m.rows[i].Purpose == purpose {
			cp := *m.rows[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOtpRepo) DeleteByEmail(_ context.Context, email, purpose string) error {
	m.calls++
	kept := m.rows[:0]
	for _, o := range m.rows {
		if o.Email != email || o.Purpose != purpose {
			kept = append(kept, o)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockOtpRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	kept := m.rows[:0]
	for _, o := range m.rows {
		if o.Expired(now) {
			n++
			continue
		}
		kept = append(kept, o)
	}
	m.rows = kept
	return n, nil
}

// ── RefreshToken ──

type mockRefreshTokenRepo struct {
	rows map[string]*model.RefreshToken
}

func (m *mockRefreshTokenRepo) Create(_ context.Context, t *model.RefreshToken) error {
	cp := *t
	m.rows[t.JTI] = &cp
	return nil
}

func (m *mockRefreshTokenRepo) GetByJTI(_ context.Context, jti string) (*model.RefreshToken, error) {
	if t, ok := m.rows[jti]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRefreshTokenRepo) DeleteByJTI(_ context.Context, jti string) error {
	delete(m.rows, jti)
	return nil
}

func (m *mockRefreshTokenRepo) DeleteByUserID(_ context.Context, userID uint) error {
	for jti, t := range m.rows {
		if t.UserID == userID {
			delete(m.rows, jti)
		}
	}
	return nil
}

func (m *mockRefreshTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for jti, t := range m.rows {
		if !now.Before(t.ExpiresAt) {
			delete(m.rows, jti)
			n++
		}
	}
	return n, nil
}

// ── collaborators ──

type mockMailer struct {
	sent []mailer.Message
	err  error
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockStorage struct {
	objects    map[string][]byte
	renameErr  error
	deleteCall []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: map[string][]byte{}}
}

func (s *mockStorage) Bucket() string { return "test-bucket" }

func (s *mockStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *mockStorage) Download(_ context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (s *mockStorage) PresignedDownloadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", storage.ErrObjectNotFound
	}
	return "https://storage.test/" + key + "?sig=1", nil
}

func (s *mockStorage) Delete(_ context.Context, key string) error {
	s.deleteCall = append(s.deleteCall, key)
	delete(s.objects, key)
	return nil
}

func (s *mockStorage) Rename(_ context.Context, oldKey, newKey string) error {
	if s.renameErr != nil {
		return s.renameErr
	}
	data, ok := s.objects[oldKey]
	if !ok {
		return storage.ErrObjectNotFound
	}
	s.objects[newKey] = data
	delete(s.objects, oldKey)
	return nil
}

func (s *mockStorage) Stat(_ context.Context, key string) (*storage.ObjectInfo, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

type mockBlacklist struct {
	entries map[string]time.Duration
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.entries[jti] = ttl
	return nil
}

type mockThrottle struct {
	allow    bool
	err      error
	released []string
}

func (t *mockThrottle) AcquireOTPCooldown(_ context.Context, _, _ string, _ time.Duration) (bool, error) {
	return t.allow, t.err
}

func (t *mockThrottle) ReleaseOTPCooldown(_ context.Context, email, purpose string) error {
	t.released = append(t.released, purpose+":"+email)
	return nil
}

var errBoom = errors.New("boom")
