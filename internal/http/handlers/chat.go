package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/http/response"
	"github.com/yungbote/mentor-backend/internal/platform/ctxutil"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/services"
)

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: chat}
}

type chatReq struct {
	StudentID string `json:"student_id"`
	Message   string `json:"message"`
}

// POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p := ctxutil.GetPrincipal(c.Request.Context())
	seq, err := h.chat.Stream(c.Request.Context(), p, req.StudentID, req.Message)
	if err != nil {
		response.RespondServiceError(c, "chat_failed", err)
		return
	}
	streamSSE(c, h.log.With("student_id", req.StudentID), seq)
}

type onboardingReq struct {
	Message string `json:"message"`
}

// POST /onboarding/chat
func (h *ChatHandler) Onboarding(c *gin.Context) {
	var req onboardingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p := ctxutil.GetPrincipal(c.Request.Context())
	seq, err := h.chat.Onboarding(c.Request.Context(), p, req.Message)
	if err != nil {
		response.RespondServiceError(c, "onboarding_failed", err)
		return
	}
	streamSSE(c, h.log.With("student_id", p.ID), seq)
}
