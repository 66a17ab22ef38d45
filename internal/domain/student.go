package domain

import "time"

// Field names shared by the documents written through the repositories.
const (
	FieldID                 = "id"
	FieldStudentID          = "studentId"
	FieldAssignmentID       = "assignmentId"
	FieldAssignedBy         = "assignedBy"
	FieldCreatedAt          = "createdAt"
	FieldUpdatedAt          = "updatedAt"
	FieldGoals              = "goals"
	FieldDateOfBirth        = "dateOfBirth"
	FieldOnboardingComplete = "onboardingComplete"
	FieldStatus             = "status"
	FieldMood               = "mood"
	FieldWin                = "win"
	FieldBlocker            = "blocker"
)

type SubmissionStatus string

const (
	SubmissionAssigned   SubmissionStatus = "assigned"
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionCompleted  SubmissionStatus = "completed"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionAssigned, SubmissionInProgress, SubmissionCompleted:
		return true
	}
	return false
}

// TimestampLayout is RFC 3339 with fixed microsecond precision, so stored
// timestamps sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp formats t the way every document timestamp is stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
