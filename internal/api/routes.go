package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/internal/observability"
	"github.com/satriahrh/rolespeak/server/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, roleplay *usecase.RoleplayService, agents *usecase.AgentService, metrics *observability.Metrics, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "roleplay-server",
		})
	})

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	v1 := e.Group("/api/v1/roleplay")

	// Content generation and previews
	v1.POST("/description", func(c echo.Context) error {
		return generateDescription(c, roleplay, logger)
	})
	v1.POST("/image", func(c echo.Context) error {
		return generateImage(c, roleplay, logger)
	})
	v1.DELETE("/deletePreviews", func(c echo.Context) error {
		return deletePreviews(c, roleplay, logger)
	})
	v1.POST("/images/promote", func(c echo.Context) error {
		return promoteImage(c, roleplay, logger)
	})

	// Agents and runs
	v1.POST("/agent", func(c echo.Context) error {
		return createAgent(c, agents, logger)
	})
	v1.POST("/agent/runs", func(c echo.Context) error {
		return createRun(c, agents, logger)
	})
	v1.DELETE("/agent/runs/:run_id", func(c echo.Context) error {
		return deleteRun(c, agents, logger)
	})
	v1.GET("/agent/runs/:run_id/conversations", func(c echo.Context) error {
		return listRunConversations(c, agents, logger)
	})

	// Conversation history
	v1.GET("/conversations/:conversation_id", func(c echo.Context) error {
		return getConversation(c, agents, logger)
	})
	v1.GET("/conversations/:conversation_id/audio", func(c echo.Context) error {
		return getConversationAudio(c, agents, logger)
	})

	v1.POST("/speech", func(c echo.Context) error {
		return previewSpeech(c, agents, logger)
	})
}

func generateDescription(c echo.Context, roleplay *usecase.RoleplayService, logger *zap.Logger) error {
	var req DescriptionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind description request", zap.Error(err))
		return invalidRequest(c, "Invalid request format")
	}

	description, err := roleplay.GenerateDescription(c.Request().Context(), req.RoleplayName, req.Language)
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, DescriptionResponse{Description: description})
}

func generateImage(c echo.Context, roleplay *usecase.RoleplayService, logger *zap.Logger) error {
	var req ImageRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind image request", zap.Error(err))
		return invalidRequest(c, "Invalid request format")
	}

	preview, err := roleplay.GenerateOpeningAndImage(c.Request().Context(), req.TeacherID, entities.Scenario{
		Name:     req.RoleplayName,
		Language: req.Language,
		Text:     req.RoleplayScenario,
	})
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, ImageResponse{
		FirstPrompt: preview.FirstPrompt,
		ImagePath:   preview.ImagePath,
	})
}

func deletePreviews(c echo.Context, roleplay *usecase.RoleplayService, logger *zap.Logger) error {
	teacherID := c.QueryParam("teacher_id")
	if strings.TrimSpace(teacherID) == "" {
		return invalidRequest(c, "teacher_id is required")
	}

	if err := roleplay.DeletePreviews(c.Request().Context(), teacherID); err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All previews deleted successfully"})
}

func promoteImage(c echo.Context, roleplay *usecase.RoleplayService, logger *zap.Logger) error {
	var req PromoteImageRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind promote request", zap.Error(err))
		return invalidRequest(c, "Invalid request format")
	}

	path, err := roleplay.PromotePreview(c.Request().Context(), req.TeacherID, req.ImagePath)
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, PromoteImageResponse{ImagePath: path})
}

func createAgent(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	var req CreateAgentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind agent request", zap.Error(err))
		return invalidRequest(c, "Invalid request format")
	}

	agentID, err := agents.CreateRoleplayAgent(c.Request().Context(), usecase.CreateAgentInput{
		RoleplayName:     req.RoleplayName,
		RoleplayScenario: req.RoleplayScenario,
		LanguageCode:     req.LanguageCode,
		FirstPrompt:      req.FirstPrompt,
	})
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, CreateAgentResponse{AgentID: agentID})
}

func createRun(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	var req CreateRunRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind run request", zap.Error(err))
		return invalidRequest(c, "Invalid request format")
	}

	runID, err := agents.StartRun(c.Request().Context(), req.AgentID, req.Speed)
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, CreateRunResponse{RunID: runID})
}

func deleteRun(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	if err := agents.EndRun(c.Request().Context(), c.Param("run_id")); err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Run deleted successfully"})
}

func listRunConversations(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	conversations, err := agents.ListRunConversations(c.Request().Context(), c.Param("run_id"))
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, conversations)
}

func getConversation(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	conversation, err := agents.GetConversation(c.Request().Context(), c.Param("conversation_id"))
	if err != nil {
		return respondError(c, err, logger)
	}

	return c.JSON(http.StatusOK, conversation)
}

func getConversationAudio(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	conversationID := c.Param("conversation_id")

	audio, err := agents.GetConversationAudio(c.Request().Context(), conversationID)
	if err != nil {
		return respondError(c, err, logger)
	}

	return streamAudio(c, audio, fmt.Sprintf("conversation_%s.mp3", conversationID))
}

func previewSpeech(c echo.Context, agents *usecase.AgentService, logger *zap.Logger) error {
	var req SpeechRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind speech request", zap.Error(err))
		return invalidRequest(c, "Invalid request format")
	}

	audio, err := agents.PreviewSpeech(c.Request().Context(), req.Text, req.LanguageCode, req.Speed)
	if err != nil {
		return respondError(c, err, logger)
	}

	return streamAudio(c, audio, "speech.mp3")
}

// streamAudio copies the upstream body to the client without buffering it
func streamAudio(c echo.Context, audio io.ReadCloser, filename string) error {
	defer audio.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Stream(http.StatusOK, "audio/mpeg", audio)
}
