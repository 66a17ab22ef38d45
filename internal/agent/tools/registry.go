package tools

import (
	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

type Deps struct {
	Profiles services.ProfileService
	Goals    services.GoalService
	Checkins services.CheckinService
	Homework services.HomeworkService
	Memory   agent.MemoryBank
	// Reports may be nil; generate_teacher_report then fails as unavailable.
	Reports ReportRunner
}

// Registry returns every tool keyed by name.
func Registry(d Deps) map[string]agent.Tool {
	all := []agent.Tool{
		GetHomework(d.Homework),
		AddHomework(d.Homework),
		GetGoals(d.Goals),
		UpdateGoals(d.Goals),
		AddDailyCheckin(d.Checkins, d.Memory),
		GetRecentCheckins(d.Checkins),
		GetStudentProfile(d.Profiles),
		UpdateStudentProfile(d.Profiles),
		CompleteOnboarding(d.Profiles),
		GenerateTeacherReport(d.Reports),
	}
	out := make(map[string]agent.Tool, len(all))
	for _, t := range all {
		out[t.Spec().Name] = t
	}
	return out
}
