package app

import (
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	Profile    repos.ProfileRepo
	Checkin    repos.CheckinRepo
	Assignment repos.AssignmentRepo
	Submission repos.SubmissionRepo
}

func wireRepos(store docstore.Store, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(store, log),
		Profile:    repos.NewProfileRepo(store, log),
		Checkin:    repos.NewCheckinRepo(store, log),
		Assignment: repos.NewAssignmentRepo(store, log),
		Submission: repos.NewSubmissionRepo(store, log),
	}
}
