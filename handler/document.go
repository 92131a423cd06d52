package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dizegn/Prevtech-sub001/service"
	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documents *service.DocumentService
	catalog   *service.Catalog
}

func NewDocumentHandler(documents *service.DocumentService, catalog *service.Catalog) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		catalog:   catalog,
	}
}

// Upload attaches a document to a process.
func (h *DocumentHandler) Upload(c *gin.Context) {
	processID := c.Param("id")
	if h.catalog.Get(processID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and DOCX files are allowed"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if ext == ".pdf" {
			contentType = "application/pdf"
		} else {
			contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		}
	}

	objectName, err := h.documents.Upload(c.Request.Context(), processID, header.Filename, file, header.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"process_id": processID,
		"object":     objectName,
		"filename":   header.Filename,
	})
}

// List returns the documents attached to a process.
func (h *DocumentHandler) List(c *gin.Context) {
	processID := c.Param("id")
	if h.catalog.Get(processID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}

	docs, err := h.documents.List(c.Request.Context(), processID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
