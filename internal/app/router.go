package app

import (
	httpserver "github.com/yungbote/mentor-backend/internal/http"
	httpH "github.com/yungbote/mentor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mentor-backend/internal/http/middleware"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/platform/observability"
)

func wireRouter(log *logger.Logger, cfg *Config, metrics *observability.Metrics, s Services, as AgentServices) httpserver.RouterConfig {
	return httpserver.RouterConfig{
		Log:            log,
		ServiceName:    cfg.OtelServiceName,
		TracingEnabled: cfg.OtelEnabled,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		Metrics:        metrics,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),
		HealthHandler:  httpH.NewHealthHandler(),
		ChatHandler:    httpH.NewChatHandler(log, as.Chat),
		StudentHandler: httpH.NewStudentHandler(s.Profile, s.Goal, s.Checkin, s.Homework),
		TeacherHandler: httpH.NewTeacherHandler(s.Assignment, as.Report),
	}
}
