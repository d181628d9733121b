package usecase

import (
	"context"
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/rolespeak/server/domain"
	"github.com/satriahrh/rolespeak/server/domain/entities"
	"github.com/satriahrh/rolespeak/server/domain/repositories"
)

var questionPattern = regexp.MustCompile(`(?s)<question>(.*?)</question>`)

// RoleplayService generates roleplay content and manages preview images
type RoleplayService struct {
	generator repositories.ContentGenerator
	storage   repositories.ObjectStorage
	logger    *zap.Logger
	newID     func() string
}

// NewRoleplayService creates a new roleplay service
func NewRoleplayService(generator repositories.ContentGenerator, storage repositories.ObjectStorage, logger *zap.Logger) *RoleplayService {
	return &RoleplayService{
		generator: generator,
		storage:   storage,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// ExtractQuestion returns the text between the first pair of question tags, or
// the whole text when the tags are absent
func ExtractQuestion(text string) (string, bool) {
	match := questionPattern.FindStringSubmatch(text)
	if match == nil {
		return text, false
	}
	return match[1], true
}

// GenerateDescription asks the model for a short plain-text scenario
func (s *RoleplayService) GenerateDescription(ctx context.Context, roleplayName, language string) (string, error) {
	if strings.TrimSpace(roleplayName) == "" || strings.TrimSpace(language) == "" {
		return "", fmt.Errorf("%w: roleplay name and language are required", domain.ErrInvalidInput)
	}

	description, err := s.generator.GenerateText(ctx, descriptionPrompt(roleplayName, language))
	if err != nil {
		return "", err
	}

	s.logger.Info("Generated roleplay description",
		zap.String("roleplay", roleplayName),
		zap.String("language", language),
		zap.Int("length", len(description)))
	return description, nil
}

// GenerateOpeningAndImage produces the opening question and a background image,
// then uploads the image as a preview of the teacher
func (s *RoleplayService) GenerateOpeningAndImage(ctx context.Context, teacherID string, scenario entities.Scenario) (*entities.OpeningPreview, error) {
	if strings.TrimSpace(teacherID) == "" {
		return nil, fmt.Errorf("%w: teacher id is required", domain.ErrInvalidInput)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	parts, err := s.generator.GenerateTextAndImage(ctx, openingPrompt(scenario.Name, scenario.Text, scenario.Language))
	if err != nil {
		return nil, err
	}

	var (
		firstPrompt string
		tagged      bool
		img         image.Image
		imageID     string
	)
	for _, part := range parts {
		if part.IsBinary() {
			decoded, format, err := decodeImage(part.Data)
			if err != nil {
				return nil, err
			}
			img = decoded
			imageID = s.newID()
			s.logger.Debug("Received generated image",
				zap.String("format", format),
				zap.String("mimeType", part.MIMEType))
			continue
		}

		if part.Text == "" || tagged {
			continue
		}
		firstPrompt, tagged = ExtractQuestion(part.Text)
	}

	if firstPrompt == "" || img == nil {
		s.logger.Warn("Generation incomplete",
			zap.String("teacher_id", teacherID),
			zap.Bool("has_text", firstPrompt != ""),
			zap.Bool("has_image", img != nil))
		return nil, domain.ErrGenerationIncomplete
	}

	pngData, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	preview := entities.PreviewImage{TeacherID: teacherID, ImageID: imageID, PNG: pngData}
	path, err := s.storage.Upload(ctx, preview.Path(), preview.PNG, "image/png")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Uploaded preview image",
		zap.String("teacher_id", teacherID),
		zap.String("path", path))

	return &entities.OpeningPreview{
		FirstPrompt: firstPrompt,
		ImagePath:   path,
	}, nil
}

// DeletePreviews removes every preview of the teacher. Deletion is best effort:
// objects removed before a failure stay removed.
func (s *RoleplayService) DeletePreviews(ctx context.Context, teacherID string) error {
	if strings.TrimSpace(teacherID) == "" {
		return fmt.Errorf("%w: teacher id is required", domain.ErrInvalidInput)
	}

	previews, err := s.storage.List(ctx, entities.PreviewPrefix(teacherID))
	if err != nil {
		return &domain.StorageError{Op: "delete previews", Err: err}
	}

	for _, preview := range previews {
		if err := s.storage.DeleteMany(ctx, []string{preview.Path}); err != nil {
			return &domain.StorageError{Op: "delete previews", Err: err}
		}
	}

	s.logger.Info("Deleted previews",
		zap.String("teacher_id", teacherID),
		zap.Int("count", len(previews)))
	return nil
}

// PromotePreview copies a preview into the teacher's images folder and returns
// the new path
func (s *RoleplayService) PromotePreview(ctx context.Context, teacherID, imagePath string) (string, error) {
	target, err := entities.PromotedPath(teacherID, imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	path, err := s.storage.Copy(ctx, imagePath, target)
	if err != nil {
		return "", err
	}

	s.logger.Info("Promoted preview image",
		zap.String("teacher_id", teacherID),
		zap.String("from", imagePath),
		zap.String("to", path))
	return path, nil
}
