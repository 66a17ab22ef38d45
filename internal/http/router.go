package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/mentor-backend/internal/domain"
	httpH "github.com/yungbote/mentor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mentor-backend/internal/http/middleware"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/platform/observability"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	HealthHandler  *httpH.HealthHandler
	ChatHandler    *httpH.ChatHandler
	StudentHandler *httpH.StudentHandler
	TeacherHandler *httpH.TeacherHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Public
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	protected := r.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Chat (SSE)
	if cfg.ChatHandler != nil {
		protected.POST("/chat", cfg.ChatHandler.Chat)
		protected.POST("/onboarding/chat", httpMW.RequireRole(domain.RoleStudent), cfg.ChatHandler.Onboarding)
	}

	// Student self-service
	if cfg.StudentHandler != nil {
		student := protected.Group("/", httpMW.RequireRole(domain.RoleStudent))
		student.GET("/profile", cfg.StudentHandler.GetProfile)
		student.POST("/profile/update", cfg.StudentHandler.UpdateProfile)
		student.POST("/checkin", cfg.StudentHandler.CreateCheckin)
		student.GET("/checkins", cfg.StudentHandler.ListCheckins)
		student.GET("/goals", cfg.StudentHandler.GetGoals)
		student.POST("/goal", cfg.StudentHandler.SetGoals)
		student.GET("/homework", cfg.StudentHandler.ListHomework)
		student.POST("/homework/:id/status", cfg.StudentHandler.UpdateHomeworkStatus)
	}

	// Teacher
	if cfg.TeacherHandler != nil {
		teacher := protected.Group("/", httpMW.RequireRole(domain.RoleTeacher))
		teacher.POST("/assignments", cfg.TeacherHandler.CreateAssignment)
		teacher.POST("/students/:id/report", cfg.TeacherHandler.GenerateReport)
	}

	return r
}
