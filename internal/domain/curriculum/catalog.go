// Package curriculum содержит статический каталог уроков и проектов курса.
// Каталог поставляется вместе с приложением и не меняется во время работы.
package curriculum

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Lesson - урок курса.
type Lesson struct {
	ID              string `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Level           string `yaml:"level" json:"level"`
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`
	VideoID         string `yaml:"video_id" json:"video_id,omitempty"`
}

// Step - один шаг проекта.
type Step struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

// Project - пошаговый учебный проект.
type Project struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Level string `yaml:"level" json:"level"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// HasStep проверяет, что шаг принадлежит проекту.
func (p Project) HasStep(stepID string) bool {
	for _, s := range p.Steps {
		if s.ID == stepID {
			return true
		}
	}
	return false
}

// StepIDs возвращает идентификаторы шагов по порядку.
func (p Project) StepIDs() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.ID
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Catalog - неизменяемый каталог курса.
type Catalog struct {
	Lessons  []Lesson  `yaml:"lessons" json:"lessons"`
	Projects []Project `yaml:"projects" json:"projects"`

	lessonIdx  map[string]int
	projectIdx map[string]int
	videoIdx   map[string]int
}

// Default возвращает встроенный каталог.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault возвращает встроенный каталог и паникует при ошибке.
// Встроенный YAML проверяется тестами, поэтому паника означает ошибку сборки.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load читает каталог из файла (для своих курсов).
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML и проверяет уникальность идентификаторов.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, shared.WrapError("curriculum", "Parse", shared.ErrInvalidFormat, "invalid catalog yaml", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.lessonIdx = make(map[string]int, len(c.Lessons))
	c.videoIdx = make(map[string]int, len(c.Lessons))
	for i, l := range c.Lessons {
		if !shared.CatalogID(l.ID).IsValid() {
			return invalid("invalid lesson id %q", l.ID)
		}
		if _, dup := c.lessonIdx[l.ID]; dup {
			return invalid("duplicate lesson id %q", l.ID)
		}
		c.lessonIdx[l.ID] = i
		if l.VideoID != "" {
			c.videoIdx[l.VideoID] = i
		}
	}

	c.projectIdx = make(map[string]int, len(c.Projects))
	for i, p := range c.Projects {
		if !shared.CatalogID(p.ID).IsValid() {
			return invalid("invalid project id %q", p.ID)
		}
		if _, dup := c.projectIdx[p.ID]; dup {
			return invalid("duplicate project id %q", p.ID)
		}
		seen := make(map[string]bool, len(p.Steps))
		for _, s := range p.Steps {
			if seen[s.ID] {
				return invalid("duplicate step %q in project %q", s.ID, p.ID)
			}
			seen[s.ID] = true
		}
		c.projectIdx[p.ID] = i
	}
	return nil
}

func invalid(format string, args ...any) error {
	return shared.NewDomainError("curriculum", "Parse", shared.ErrInvalidFormat, fmt.Sprintf(format, args...))
}

// TotalLessons - число уроков в курсе.
func (c *Catalog) TotalLessons() int {
	return len(c.Lessons)
}

// LessonIDs возвращает идентификаторы уроков по порядку.
func (c *Catalog) LessonIDs() []string {
	out := make([]string, len(c.Lessons))
	for i, l := range c.Lessons {
		out[i] = l.ID
	}
	return out
}

// Lesson ищет урок по id.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	i, ok := c.lessonIdx[id]
	if !ok {
		return Lesson{}, false
	}
	return c.Lessons[i], true
}

// HasLesson проверяет наличие урока.
func (c *Catalog) HasLesson(id string) bool {
	_, ok := c.lessonIdx[id]
	return ok
}

// HasVideo проверяет, что видео привязано к какому-то уроку.
func (c *Catalog) HasVideo(id string) bool {
	_, ok := c.videoIdx[id]
	return ok
}

// Project ищет проект по id.
func (c *Catalog) Project(id string) (Project, bool) {
	i, ok := c.projectIdx[id]
	if !ok {
		return Project{}, false
	}
	return c.Projects[i], true
}
