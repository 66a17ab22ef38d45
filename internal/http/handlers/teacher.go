package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/http/response"
	"github.com/yungbote/mentor-backend/internal/platform/ctxutil"
	"github.com/yungbote/mentor-backend/internal/services"
)

type TeacherHandler struct {
	assignments services.AssignmentService
	reports     services.ReportService
}

func NewTeacherHandler(assignments services.AssignmentService, reports services.ReportService) *TeacherHandler {
	return &TeacherHandler{assignments: assignments, reports: reports}
}

// POST /assignments
func (h *TeacherHandler) CreateAssignment(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ids, err := stringSlice(body["studentIds"])
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p := ctxutil.GetPrincipal(c.Request.Context())
	res, err := h.assignments.Assign(c.Request.Context(), p.ID, services.AssignRequest{StudentIDs: ids, Fields: body})
	if err != nil {
		response.RespondServiceError(c, "assignment_failed", err)
		return
	}
	response.RespondOK(c, res)
}

// POST /students/:id/report
func (h *TeacherHandler) GenerateReport(c *gin.Context) {
	rep, err := h.reports.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, "report_failed", err)
		return
	}
	response.RespondOK(c, rep)
}

func stringSlice(v any) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, errors.New("studentIds must be an array of strings")
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, errors.New("studentIds must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
