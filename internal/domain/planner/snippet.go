package planner

import (
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// DefaultLanguage - язык сниппета, если он не указан.
const DefaultLanguage = "javascript"

// Snippet - сохранённый фрагмент кода.
type Snippet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSnippet создаёт сниппет. Код хранится как есть, без обрезки.
func NewSnippet(id, title, language, code string, now time.Time) (*Snippet, error) {
	s := &Snippet{ID: id, CreatedAt: now}
	if err := s.Edit(title, language, code, now); err != nil {
		return nil, err
	}
	return s, nil
}

// Edit заменяет содержимое сниппета.
func (s *Snippet) Edit(title, language, code string, now time.Time) error {
	title = shared.NormalizeText(title)
	if title == "" {
		return shared.ErrEmptyTitle
	}
	if shared.NormalizeText(code) == "" {
		return shared.ErrEmptyCode
	}
	language = shared.NormalizeText(language)
	if language == "" {
		language = DefaultLanguage
	}
	s.Title = title
	s.Language = language
	s.Code = code
	s.UpdatedAt = now
	return nil
}

// Snippets - список сниппетов.
type Snippets []*Snippet

// Find возвращает сниппет по id.
func (ss Snippets) Find(id string) (*Snippet, bool) {
	for _, s := range ss {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Remove удаляет сниппет по id.
func (ss Snippets) Remove(id string) (Snippets, bool) {
	for i, s := range ss {
		if s.ID == id {
			return append(ss[:i:i], ss[i+1:]...), true
		}
	}
	return ss, false
}
