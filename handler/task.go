package handler

import (
	"net/http"
	"strings"

	"github.com/dizegn/Prevtech-sub001/service"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks   *service.TaskStore
	catalog *service.Catalog
}

func NewTaskHandler(tasks *service.TaskStore, catalog *service.Catalog) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		catalog: catalog,
	}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Responsible string `json:"responsible"`
	DueDate     string `json:"due_date"`
}

// Create links a task to a process.
func (h *TaskHandler) Create(c *gin.Context) {
	processID := c.Param("id")
	if h.catalog.Get(processID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Título da tarefa é obrigatório"})
		return
	}

	task := h.tasks.Create(processID, strings.TrimSpace(req.Title), req.Responsible, req.DueDate)
	c.JSON(http.StatusCreated, task)
}

// List returns the tasks linked to a process.
func (h *TaskHandler) List(c *gin.Context) {
	processID := c.Param("id")
	if h.catalog.Get(processID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": h.tasks.ByProcess(processID)})
}
