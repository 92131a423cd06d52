package handler

import (
	"errors"
	"net/http"

	"github.com/dizegn/Prevtech-sub001/pkg/logger"
	"github.com/dizegn/Prevtech-sub001/service"
	"github.com/gin-gonic/gin"
)

type IntakeHandler struct {
	manager *service.IntakeManager
	sink    service.CreationSink
}

func NewIntakeHandler(manager *service.IntakeManager, sink service.CreationSink) *IntakeHandler {
	return &IntakeHandler{
		manager: manager,
		sink:    sink,
	}
}

type OpenIntakeRequest struct {
	Source string `json:"source" binding:"required"`
}

// Open starts an intake session for the chosen creation source.
func (h *IntakeHandler) Open(c *gin.Context) {
	var req OpenIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.manager.Open(req.Source)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info(c.Request.Context(), "intake session opened",
		"intake_session", session.ID,
		"source", session.Source,
	)
	c.JSON(http.StatusCreated, session.Snapshot())
}

// Get returns the session snapshot.
func (h *IntakeHandler) Get(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão de cadastro não encontrada"})
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

type SearchRequest struct {
	Key string `json:"key"`
}

// Search submits the query key to the session's lookup adapter. A
// not-found result is a normal outcome surfaced in the snapshot message,
// not an HTTP error.
func (h *IntakeHandler) Search(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão de cadastro não encontrada"})
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := session.Search(c.Request.Context(), req.Key); err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrManualSource):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSearchLocked),
			errors.Is(err, service.ErrLookupInFlight),
			errors.Is(err, service.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error(c.Request.Context(), "lookup failed",
				"intake_session", session.ID,
				"error", err,
			)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Falha na consulta externa. Tente novamente."})
		}
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

type SetFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// SetFields edits completion fields of the session.
func (h *IntakeHandler) SetFields(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão de cadastro não encontrada"})
		return
	}

	var req SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	for name, value := range req.Fields {
		if err := session.SetField(name, value); err != nil {
			switch {
			case errors.Is(err, service.ErrUnknownField):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			}
			return
		}
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// Reset is the "new search" action: clears the fetched record and all
// completions.
func (h *IntakeHandler) Reset(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão de cadastro não encontrada"})
		return
	}

	if err := session.Reset(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// Save finalizes the session through the creation sink. On success the
// session is destroyed; on sink failure the completions survive for retry.
func (h *IntakeHandler) Save(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão de cadastro não encontrada"})
		return
	}

	p, err := session.Save(c.Request.Context(), h.sink)
	if err != nil {
		var incomplete *service.IncompleteError
		var invalidValue *service.InvalidValueError
		switch {
		case errors.Is(err, service.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &incomplete):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Campos obrigatórios não preenchidos",
				"missing": incomplete.Missing,
			})
		case errors.As(err, &invalidValue),
			errors.Is(err, service.ErrRecordRequired),
			errors.Is(err, service.ErrUnknownResponsible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error(c.Request.Context(), "creation sink failed",
				"intake_session", session.ID,
				"error", err,
			)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Falha ao salvar o processo. Os dados preenchidos foram mantidos."})
		}
		return
	}

	h.manager.Close(session.ID)
	c.JSON(http.StatusCreated, processView(p))
}

// Cancel destroys the session without saving.
func (h *IntakeHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.manager.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sessão de cadastro não encontrada"})
		return
	}

	h.manager.Close(id)
	c.JSON(http.StatusOK, gin.H{"message": "Sessão de cadastro encerrada"})
}
