package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/internal/repository"
	apperr "github.com/XuanBac3105/do-an-server2-sub000/pkg/errors"
)

var ErrExportFailed = apperr.Internal(35001, "failed to generate the spreadsheet")

// ExportService spreadsheet exports
type ExportService interface {
	// ExportRoster writes the active members of a classroom to an xlsx workbook.
	// Returns the workbook and a suggested file name.
	ExportRoster(ctx context.Context, classroomID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const rosterSheet = "Roster"

func (s *exportService) ExportRoster(ctx context.Context, classroomID uint) (*bytes.Buffer, string, error) {
	classroom, err := getClassroom(ctx, s.repo, s.logger, classroomID)
	if err != nil {
		return nil, "", err
	}

	members, err := s.repo.ClassroomStudent.ListActiveByClassroom(ctx, classroomID)
	if err != nil {
		s.logger.Error("list classroom members failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return nil, "", s.fail(classroomID, err)
	}

	// title row
	_ = f.SetCellValue(rosterSheet, "A1", classroom.Name)
	_ = f.MergeCell(rosterSheet, "A1", "D1")

	headers := []string{"No.", "Full name", "Email", "Joined at"}
	for i, h := range headers {
		_ = f.SetCellValue(rosterSheet, cell(i, 2), h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err == nil {
		_ = f.SetCellStyle(rosterSheet, cell(0, 2), cell(len(headers)-1, 2), headerStyle)
	}

	for i, m := range members {
		row := i + 3
		name, email := "", ""
		if m.Student != nil {
			name, email = m.Student.FullName, m.Student.Email
		}
		_ = f.SetCellValue(rosterSheet, cell(0, row), i+1)
		_ = f.SetCellValue(rosterSheet, cell(1, row), name)
		_ = f.SetCellValue(rosterSheet, cell(2, row), email)
		_ = f.SetCellValue(rosterSheet, cell(3, row), m.JoinedAt.Format(time.DateOnly))
	}

	_ = f.SetColWidth(rosterSheet, "A", "A", 6)
	_ = f.SetColWidth(rosterSheet, "B", "C", 32)
	_ = f.SetColWidth(rosterSheet, "D", "D", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", s.fail(classroomID, err)
	}

	filename := fmt.Sprintf("classroom-%d-roster-%s.xlsx", classroom.ID, time.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) fail(classroomID uint, err error) error {
	s.logger.Error("generate roster failed", zap.Uint("classroom_id", classroomID), zap.Error(err))
	return ErrExportFailed
}

// cell converts zero-based column and one-based row to "A1" notation
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
