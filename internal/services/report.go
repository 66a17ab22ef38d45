package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/mentor-backend/internal/platform/gcp"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// ReportPrompt is the instruction sent to the analytics agent for a report.
const ReportPrompt = "Summarize the student's performance, risks, and wins."

// ReportRunner runs the analytics agent for one student.
type ReportRunner interface {
	RunReport(ctx context.Context, studentID, prompt string) (string, error)
}

type Report struct {
	StudentID  string `json:"studentId"`
	Report     string `json:"report"`
	ArchiveURL string `json:"archiveUrl,omitempty"`
}

type ReportService interface {
	Generate(ctx context.Context, studentID string) (*Report, error)
}

type reportService struct {
	log     *logger.Logger
	runner  ReportRunner
	archive gcp.ReportArchive
	now     func() time.Time
}

// NewReportService wires the analytics runner. archive may be nil, in which
// case reports are returned without being stored.
func NewReportService(log *logger.Logger, runner ReportRunner, archive gcp.ReportArchive) ReportService {
	return &reportService{
		log:     log.With("service", "ReportService"),
		runner:  runner,
		archive: archive,
		now:     time.Now,
	}
}

func ReportObjectKey(studentID string, at time.Time) string {
	return fmt.Sprintf("reports/%s/%s.md", studentID, at.UTC().Format("20060102T150405Z"))
}

func (rs *reportService) Generate(ctx context.Context, studentID string) (*Report, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrValidation)
	}
	if rs.runner == nil {
		return nil, fmt.Errorf("report runner is not configured")
	}
	text, err := rs.runner.RunReport(ctx, studentID, ReportPrompt)
	if err != nil {
		return nil, fmt.Errorf("run analytics agent: %w", err)
	}
	out := &Report{StudentID: studentID, Report: text}
	if rs.archive == nil {
		return out, nil
	}
	key := ReportObjectKey(studentID, rs.now())
	url, err := rs.archive.Put(ctx, key, "text/markdown; charset=utf-8", bytes.NewReader([]byte(text)))
	if err != nil {
		// The report itself succeeded; a failed upload only loses the link.
		rs.log.Warn("Report archive upload failed", "student_id", studentID, "key", key, "error", err)
		return out, nil
	}
	out.ArchiveURL = url
	return out, nil
}
