package handler

import (
	"net/http"
	"strings"

	"github.com/dizegn/Prevtech-sub001/config"
	"github.com/dizegn/Prevtech-sub001/model"
	"github.com/dizegn/Prevtech-sub001/pkg/format"
	"github.com/dizegn/Prevtech-sub001/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProcessHandler struct {
	catalog  *service.Catalog
	notifier service.Notifier
	config   *config.Config
}

func NewProcessHandler(catalog *service.Catalog, notifier service.Notifier, cfg *config.Config) *ProcessHandler {
	return &ProcessHandler{
		catalog:  catalog,
		notifier: notifier,
		config:   cfg,
	}
}

func processView(p *model.Process) gin.H {
	return gin.H{
		"id":                   p.ID,
		"case_number":          p.CaseNumber,
		"title":                p.Title,
		"client":               p.Client,
		"court":                p.Court,
		"status":               p.Status,
		"phase":                p.Phase,
		"value":                p.Value,
		"value_display":        format.Currency(p.Value),
		"responsible":          p.Responsible,
		"notes":                p.Notes,
		"source":               p.Source,
		"source_key":           p.SourceKey,
		"next_hearing":         p.NextHearing,
		"next_hearing_display": format.Date(p.NextHearing),
		"created_at":           p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updated_at":           p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List returns the filtered view of the catalog. All four predicates are
// conjunctive; status, court and tab accept the "all" sentinel.
func (h *ProcessHandler) List(c *gin.Context) {
	view := h.catalog.FilteredView(
		c.Query("q"),
		c.DefaultQuery("status", model.FilterAll),
		c.DefaultQuery("court", model.FilterAll),
		c.DefaultQuery("tab", model.FilterAll),
	)

	result := make([]gin.H, len(view))
	for i, p := range view {
		result[i] = processView(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"processes": result,
		"courts":    h.catalog.Courts(),
	})
}

// Metrics returns the aggregates of the current filtered view. The active
// counter deliberately ignores the filters and spans the full catalog.
func (h *ProcessHandler) Metrics(c *gin.Context) {
	view := h.catalog.FilteredView(
		c.Query("q"),
		c.DefaultQuery("status", model.FilterAll),
		c.DefaultQuery("court", model.FilterAll),
		c.DefaultQuery("tab", model.FilterAll),
	)

	count, total := h.catalog.Aggregate(view)

	c.JSON(http.StatusOK, gin.H{
		"count":               count,
		"total_value":         total,
		"total_value_display": format.Currency(total),
		"active_count":        h.catalog.ActiveCount(),
	})
}

// Get returns the read-only detail projection of one process.
func (h *ProcessHandler) Get(c *gin.Context) {
	p := h.catalog.Get(c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	c.JSON(http.StatusOK, processView(p))
}

type UpdateProcessRequest struct {
	CaseNumber  string `json:"case_number"`
	Title       string `json:"title"`
	Client      string `json:"client"`
	Court       string `json:"court"`
	Status      string `json:"status"`
	Phase       string `json:"phase"`
	Value       string `json:"value"`
	Responsible string `json:"responsible"`
	Notes       string `json:"notes"`
	NextHearing string `json:"next_hearing"`
}

// Update replaces every mutable field of a process. Identity and
// provenance are immutable.
func (h *ProcessHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var missing []string
	for field, value := range map[string]string{
		"title":       req.Title,
		"client":      req.Client,
		"court":       req.Court,
		"phase":       req.Phase,
		"responsible": req.Responsible,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Campos obrigatórios não preenchidos",
			"missing": missing,
		})
		return
	}

	if !model.ValidStatus(req.Status) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Status inválido: " + req.Status})
		return
	}
	if !h.config.InRoster(req.Responsible) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Responsável fora do quadro do escritório"})
		return
	}

	value := decimal.Zero
	if raw := strings.TrimSpace(req.Value); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Valor da causa inválido: " + raw})
			return
		}
		value = parsed.Round(2)
	}

	p, err := h.catalog.Replace(id, service.ProcessUpdate{
		CaseNumber:  strings.TrimSpace(req.CaseNumber),
		Title:       strings.TrimSpace(req.Title),
		Client:      strings.TrimSpace(req.Client),
		Court:       strings.TrimSpace(req.Court),
		Status:      req.Status,
		Phase:       strings.TrimSpace(req.Phase),
		Value:       value,
		Responsible: req.Responsible,
		Notes:       req.Notes,
		NextHearing: strings.TrimSpace(req.NextHearing),
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	h.notifier.Success(c.Request.Context(), "Processo "+p.CaseNumber+" atualizado com sucesso")
	c.JSON(http.StatusOK, processView(p))
}

// ArchiveRequest is step one of archival: it mints the confirmation token
// the caller must echo back. Nothing changes until the token returns.
func (h *ProcessHandler) ArchiveRequest(c *gin.Context) {
	id := c.Param("id")

	p := h.catalog.Get(id)
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	token, expiresAt, err := service.NewArchiveToken(id, &h.config.Archive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate confirmation token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"process_id":   id,
		"case_number":  p.CaseNumber,
		"confirmation": token,
		"expires_at":   expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		"message":      "Confirme o arquivamento do processo " + p.CaseNumber,
	})
}

type ArchiveConfirmRequest struct {
	Confirmation string `json:"confirmation" binding:"required"`
}

// ArchiveConfirm is step two: on a valid token the process transitions to
// archived. Archiving an already-archived process is a no-op.
func (h *ProcessHandler) ArchiveConfirm(c *gin.Context) {
	id := c.Param("id")

	var req ArchiveConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := service.VerifyArchiveToken(req.Confirmation, id, &h.config.Archive); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Confirmação inválida ou expirada"})
		return
	}

	p, err := h.catalog.Archive(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	h.notifier.Success(c.Request.Context(), "Processo "+p.CaseNumber+" arquivado")
	c.JSON(http.StatusOK, processView(p))
}
