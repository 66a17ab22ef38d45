package app

import (
	"github.com/yungbote/mentor-backend/internal/platform/firebaseauth"
	"github.com/yungbote/mentor-backend/internal/platform/gcp"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Profile    services.ProfileService
	Goal       services.GoalService
	Checkin    services.CheckinService
	Homework   services.HomeworkService
	Assignment services.AssignmentService
}

func wireServices(log *logger.Logger, verifier firebaseauth.TokenVerifier, r Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(log, verifier, r.User),
		Profile:    services.NewProfileService(log, r.Profile),
		Goal:       services.NewGoalService(log, r.Profile),
		Checkin:    services.NewCheckinService(log, r.Checkin),
		Homework:   services.NewHomeworkService(log, r.Assignment, r.Submission),
		Assignment: services.NewAssignmentService(log, r.Assignment, r.Submission),
	}
}

// AgentServices depend on the agent runtimes built from Services.
type AgentServices struct {
	Chat   services.ChatService
	Report services.ReportService
}

func wireAgentServices(log *logger.Logger, agents *Agents, archive gcp.ReportArchive) AgentServices {
	return AgentServices{
		Chat:   services.NewChatService(log, agents.Hub, agents.Onboarding),
		Report: services.NewReportService(log, agents.Reports, archive),
	}
}
