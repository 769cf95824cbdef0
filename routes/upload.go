package routes

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"session-rag-chatbot/internal/config"
	"session-rag-chatbot/internal/logger"
	"session-rag-chatbot/internal/session"
	"session-rag-chatbot/models"
	"session-rag-chatbot/services"
	"session-rag-chatbot/utils"
)

// SetupUploadRoutes registers the document upload endpoint. Data is
// segregated by session_id.
func SetupUploadRoutes(router *gin.Engine, cfg *config.Config, ingestor services.Ingestor) {
	router.POST("/upload", func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			sessionID = c.PostForm("session_id")
		}
		if sessionID == "" {
			utils.RespondInvalidInput(c, "session_id is required.")
			return
		}

		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondInvalidInput(c, "File size exceeds maximum limit.")
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondInvalidInput(c, "No file provided.")
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			utils.RespondInvalidInput(c, "Only PDF files are supported.")
			return
		}

		tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("temp_%s.pdf", uuid.NewString()))
		dst, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			utils.RespondProcessingError(c, err)
			return
		}
		// The temp file must not outlive the request on any exit path
		defer os.Remove(tempPath)

		// Read one byte past the limit so an oversized upload is detected
		// instead of silently truncated
		written, copyErr := io.Copy(dst, io.LimitReader(file, cfg.MaxFileSize+1))
		closeErr := dst.Close()
		if copyErr != nil {
			utils.RespondProcessingError(c, copyErr)
			return
		}
		if closeErr != nil {
			utils.RespondProcessingError(c, closeErr)
			return
		}
		if written > cfg.MaxFileSize {
			utils.RespondInvalidInput(c, "File size exceeds maximum limit.")
			return
		}

		canonical := session.Canonical(sessionID)
		chunkCount, err := ingestor.IngestPDF(c.Request.Context(), tempPath, header.Filename, canonical)
		if err != nil {
			logger.Error("upload failed",
				"filename", header.Filename,
				"session_id", sessionID,
				"error", err.Error(),
			)
			utils.RespondProcessingError(c, err)
			return
		}

		logger.Info("upload complete",
			"filename", header.Filename,
			"session_id", sessionID,
			"chunks", chunkCount,
		)
		c.JSON(http.StatusOK, models.UploadResponse{
			Status:  "Success",
			Message: fmt.Sprintf("Document '%s' indexed for session '%s'.", header.Filename, sessionID),
		})
	})
}
