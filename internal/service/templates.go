package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"wellness_tracker/internal/models"

	"gopkg.in/yaml.v3"
)

var ErrTemplateNotFound = errors.New("template not found")

// catalog fallbacks for sparse template entries
const (
	templateNameFallback       = "Untitled template"
	templateDifficultyFallback = "beginner"
	templateCategoryFallback   = "general"
)

type templateFile struct {
	Templates []models.Template `yaml:"templates"`
}

// LoadTemplates reads the starter catalog from a YAML file.
func LoadTemplates(path string) ([]models.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes a catalog, fills in missing fields and sorts it by name.
// Entries without an id are rejected, as are duplicate ids.
func ParseTemplates(data []byte) ([]models.Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}

	seen := make(map[string]bool, len(f.Templates))
	for i := range f.Templates {
		t := &f.Templates[i]
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("template #%d has no id", i+1)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true

		if t.Name == "" {
			t.Name = templateNameFallback
		}
		if t.Difficulty == "" {
			t.Difficulty = templateDifficultyFallback
		}
		if t.Category == "" {
			t.Category = templateCategoryFallback
		}
	}

	sort.SliceStable(f.Templates, func(i, j int) bool {
		return strings.ToLower(f.Templates[i].Name) < strings.ToLower(f.Templates[j].Name)
	})
	return f.Templates, nil
}

type exerciseCreator interface {
	Create(ctx context.Context, userID int, in ExerciseInput) (models.Exercise, error)
}

type TemplateService struct {
	catalog   []models.Template
	byID      map[string]models.Template
	exercises exerciseCreator
}

func NewTemplateService(catalog []models.Template, exercises exerciseCreator) *TemplateService {
	byID := make(map[string]models.Template, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}
	return &TemplateService{catalog: catalog, byID: byID, exercises: exercises}
}

// List returns a copy of the catalog.
func (s *TemplateService) List() []models.Template {
	out := make([]models.Template, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Instantiate adds a new exercise to the user's list, copied from the template.
func (s *TemplateService) Instantiate(ctx context.Context, userID int, templateID string) (models.Exercise, error) {
	t, ok := s.byID[templateID]
	if !ok {
		return models.Exercise{}, ErrTemplateNotFound
	}
	cfg := t.Timer
	return s.exercises.Create(ctx, userID, ExerciseInput{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Timer:       &cfg,
	})
}
