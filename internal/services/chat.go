package services

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// ChatService opens streamed agent conversations. Session ids are derived
// here, never taken from the client.
type ChatService interface {
	Stream(ctx context.Context, caller *domain.Principal, studentID, message string) (iter.Seq2[string, error], error)
	Onboarding(ctx context.Context, caller *domain.Principal, message string) (iter.Seq2[string, error], error)
}

type chatService struct {
	log        *logger.Logger
	hub        agent.Runtime
	onboarding agent.Runtime
}

func NewChatService(log *logger.Logger, hub, onboarding agent.Runtime) ChatService {
	return &chatService{
		log:        log.With("service", "ChatService"),
		hub:        hub,
		onboarding: onboarding,
	}
}

func ChatSessionID(studentID string) string { return "chat:" + studentID }
func OnboardingSessionID(uid string) string { return "onboarding:" + uid }

func (cs *chatService) Stream(ctx context.Context, caller *domain.Principal, studentID, message string) (iter.Seq2[string, error], error) {
	studentID = strings.TrimSpace(studentID)
	message = strings.TrimSpace(message)
	if studentID == "" {
		return nil, fmt.Errorf("%w: student_id is required", ErrValidation)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if caller == nil {
		return nil, fmt.Errorf("%w: no caller", ErrForbidden)
	}
	if caller.IsStudent() && caller.ID != studentID {
		return nil, fmt.Errorf("%w: students may only chat as themselves", ErrForbidden)
	}
	cs.log.Debug("Chat stream opened", "user_id", caller.ID, "student_id", studentID, "role", caller.Role)
	return cs.hub.Generate(ctx, message, agent.Session{ID: ChatSessionID(studentID), StudentID: studentID}), nil
}

func (cs *chatService) Onboarding(ctx context.Context, caller *domain.Principal, message string) (iter.Seq2[string, error], error) {
	if !caller.IsStudent() {
		return nil, fmt.Errorf("%w: onboarding is for students", ErrForbidden)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if cs.onboarding == nil {
		return nil, fmt.Errorf("onboarding agent is not configured")
	}
	return cs.onboarding.Generate(ctx, message, agent.Session{ID: OnboardingSessionID(caller.ID), StudentID: caller.ID}), nil
}
