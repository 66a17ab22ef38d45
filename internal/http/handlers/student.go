package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/http/response"
	"github.com/yungbote/mentor-backend/internal/platform/ctxutil"
	"github.com/yungbote/mentor-backend/internal/services"
)

// StudentHandler serves the self-service routes of an authenticated student.
// The student id is always the caller's uid.
type StudentHandler struct {
	profiles services.ProfileService
	goals    services.GoalService
	checkins services.CheckinService
	homework services.HomeworkService
}

func NewStudentHandler(
	profiles services.ProfileService,
	goals services.GoalService,
	checkins services.CheckinService,
	homework services.HomeworkService,
) *StudentHandler {
	return &StudentHandler{profiles: profiles, goals: goals, checkins: checkins, homework: homework}
}

func studentID(c *gin.Context) string {
	if p := ctxutil.GetPrincipal(c.Request.Context()); p != nil {
		return p.ID
	}
	return ""
}

// GET /profile
func (h *StudentHandler) GetProfile(c *gin.Context) {
	doc, err := h.profiles.Get(c.Request.Context(), studentID(c))
	if err != nil {
		response.RespondServiceError(c, "profile_read_failed", err)
		return
	}
	response.RespondOK(c, doc)
}

// POST /profile/update
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.profiles.Update(c.Request.Context(), studentID(c), body)
	if err != nil {
		response.RespondServiceError(c, "profile_update_failed", err)
		return
	}
	response.RespondOK(c, doc)
}

// POST /checkin
func (h *StudentHandler) CreateCheckin(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.checkins.Create(c.Request.Context(), studentID(c), body)
	if err != nil {
		response.RespondServiceError(c, "checkin_failed", err)
		return
	}
	response.RespondOK(c, doc)
}

// GET /checkins?limit=7
func (h *StudentHandler) ListCheckins(c *gin.Context) {
	limit := 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}
	items, err := h.checkins.ListRecent(c.Request.Context(), studentID(c), limit)
	if err != nil {
		response.RespondServiceError(c, "checkins_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"checkins": items})
}

// GET /goals
func (h *StudentHandler) GetGoals(c *gin.Context) {
	goals, err := h.goals.Get(c.Request.Context(), studentID(c))
	if err != nil {
		response.RespondServiceError(c, "goals_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"goals": goals})
}

type goalsReq struct {
	Goals []string `json:"goals"`
}

// POST /goal
func (h *StudentHandler) SetGoals(c *gin.Context) {
	var req goalsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Goals == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("goals must be an array of strings"))
		return
	}
	goals, err := h.goals.Set(c.Request.Context(), studentID(c), req.Goals)
	if err != nil {
		response.RespondServiceError(c, "goals_update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"goals": goals})
}

// GET /homework
func (h *StudentHandler) ListHomework(c *gin.Context) {
	items, err := h.homework.List(c.Request.Context(), studentID(c))
	if err != nil {
		response.RespondServiceError(c, "homework_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"homework": items})
}

type statusReq struct {
	Status string `json:"status"`
}

// POST /homework/:id/status
func (h *StudentHandler) UpdateHomeworkStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	status := domain.SubmissionStatus(strings.TrimSpace(req.Status))
	doc, err := h.homework.UpdateStatus(c.Request.Context(), studentID(c), c.Param("id"), status)
	if err != nil {
		response.RespondServiceError(c, "homework_update_failed", err)
		return
	}
	response.RespondOK(c, doc)
}
