package entities

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// Scenario describes a roleplay as authored by a teacher
type Scenario struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Text     string `json:"scenario"`
}

// PreviewImage is a generated background image waiting for the teacher to confirm it
type PreviewImage struct {
	TeacherID string
	ImageID   string
	PNG       []byte
}

// OpeningPreview is what the teacher sees before saving a roleplay
type OpeningPreview struct {
	FirstPrompt string `json:"first_prompt"`
	ImagePath   string `json:"image_path"`
}

// StoredObject represents an entry returned by an object storage listing
type StoredObject struct {
	Name      string    `json:"name"` // relative to the listed prefix
	Path      string    `json:"path"` // full path inside the bucket
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreviewPrefix is the folder holding every preview of a teacher
func PreviewPrefix(teacherID string) string {
	return teacherID + "/previews"
}

// ImagePrefix is the folder holding the images of saved roleplays
func ImagePrefix(teacherID string) string {
	return teacherID + "/images"
}

// Path returns the storage key of the preview
func (p PreviewImage) Path() string {
	return fmt.Sprintf("%s/%s.png", PreviewPrefix(p.TeacherID), p.ImageID)
}

// PromotedPath maps a preview path to its final location under the images folder.
// The preview must belong to the teacher.
func PromotedPath(teacherID, previewPath string) (string, error) {
	prefix := PreviewPrefix(teacherID) + "/"
	if teacherID == "" || !strings.HasPrefix(previewPath, prefix) {
		return "", fmt.Errorf("image path %q is not a preview of teacher %q", previewPath, teacherID)
	}

	name := path.Base(previewPath)
	if name == "" || name == "." || name == "/" || strings.TrimPrefix(previewPath, prefix) != name {
		return "", fmt.Errorf("image path %q does not name a file", previewPath)
	}

	return ImagePrefix(teacherID) + "/" + name, nil
}

// Validate validates the scenario data used for image generation
func (s *Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("roleplay name is required")
	}
	if strings.TrimSpace(s.Language) == "" {
		return errors.New("language is required")
	}
	if strings.TrimSpace(s.Text) == "" {
		return errors.New("roleplay scenario is required")
	}
	return nil
}
