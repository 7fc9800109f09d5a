package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalvoice_backend/internal/dialog/service"
	"rentalvoice_backend/internal/dialog/transport"
	"rentalvoice_backend/internal/http/response"
	"rentalvoice_backend/internal/speech"
	"rentalvoice_backend/internal/tenancy"
	"rentalvoice_backend/platform/validator"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for calls, reasoning and speech.
type Handler struct {
	svc    *service.Service
	speech *speech.Cache
	val    *validator.Validator
}

// New creates a new dialog handler. speechCache may be nil when synthesis is
// not configured; turn audio is then silently omitted.
func New(svc *service.Service, speechCache *speech.Cache, val *validator.Validator) *Handler {
	return &Handler{svc: svc, speech: speechCache, val: val}
}

// RegisterRoutes registers the dialog routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reason", h.Reason)
	rg.POST("/reason_and_act", h.ReasonAndAct)
	rg.POST("/calls/:callID/turn", h.Turn)
	rg.GET("/calls/:callID", h.GetSession)
	rg.DELETE("/calls/:callID", h.EndCall)
	rg.POST("/speech", h.Speech)
}

func (h *Handler) Turn(c *gin.Context) {
	var req transport.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	eng, tenant := tenancy.EngineFrom(c)
	callID := c.Param("callID")

	var (
		result *service.TurnResult
		err    error
	)
	if req.Mode == "reason" {
		result, err = h.svc.ReasonTurn(c.Request.Context(), eng, tenant, callID, req.CallerNumber, req.Utterance)
	} else {
		result, err = h.svc.TakeTurn(c.Request.Context(), eng, tenant, callID, req.CallerNumber, req.Utterance)
	}
	if err != nil {
		response.AppError(c, err)
		return
	}

	resp := transport.TurnResponse{
		CallID:        callID,
		Say:           result.Say,
		Done:          result.Done,
		Slots:         result.Slots,
		Tool:          result.Tool,
		ToolResult:    result.ToolResult,
		ToolError:     result.ToolError,
		FollowUpQuote: result.FollowUpQuote,
	}
	if req.Speak && h.speech != nil {
		if path, _, speakErr := h.speech.Speak(c.Request.Context(), result.Say); speakErr == nil {
			resp.AudioPath = path
		}
	}
	response.OK(c, resp)
}

func (h *Handler) GetSession(c *gin.Context) {
	state, err := h.svc.Session(c.Request.Context(), c.Param("callID"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.OK(c, transport.SessionResponse{
		CallID:       state.CallID,
		CallerNumber: state.CallerNumber,
		Slots:        state.Slots,
		Messages:     state.Messages,
		Completed:    state.Completed,
	})
}

func (h *Handler) EndCall(c *gin.Context) {
	_, tenant := tenancy.EngineFrom(c)
	if err := h.svc.EndCall(c.Request.Context(), tenant, c.Param("callID")); err != nil {
		response.AppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Reason(c *gin.Context) {
	var req transport.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	eng, _ := tenancy.EngineFrom(c)
	thought, err := h.svc.Think(c.Request.Context(), eng, req.Messages)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.OK(c, transport.ReasonResponse{Say: thought.Say, Tool: thought.Tool, Args: thought.Args})
}

func (h *Handler) ReasonAndAct(c *gin.Context) {
	var req transport.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	eng, tenant := tenancy.EngineFrom(c)
	thought, result, err := h.svc.ThinkAndAct(c.Request.Context(), eng, tenant, req.Messages, req.CallerNumber)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.OK(c, transport.ReasonAndActResponse{
		Say:           thought.Say,
		Tool:          thought.Tool,
		Args:          thought.Args,
		ToolResult:    result.ToolResult,
		ToolError:     result.ToolError,
		FollowUpQuote: result.FollowUpQuote,
	})
}

func (h *Handler) Speech(c *gin.Context) {
	if h.speech == nil {
		response.Error(c, http.StatusServiceUnavailable, "speech synthesis is not configured", nil)
		return
	}

	var req transport.SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	path, hash, err := h.speech.Speak(c.Request.Context(), req.Text)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.OK(c, transport.SpeechResponse{Path: path, Hash: hash})
}
