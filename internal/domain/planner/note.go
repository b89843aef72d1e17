package planner

import (
	"time"

	"github.com/rn-academy/progress-hub/internal/domain/shared"
)

// Note - заметка пользователя, опционально привязанная к уроку.
type Note struct {
	ID        string    `json:"id"`
	LessonID  string    `json:"lesson_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создаёт заметку; текст не может быть пустым.
func NewNote(id, lessonID, text string, now time.Time) (*Note, error) {
	text = shared.NormalizeText(text)
	if text == "" {
		return nil, shared.ErrEmptyText
	}
	return &Note{ID: id, LessonID: lessonID, Text: text, CreatedAt: now, UpdatedAt: now}, nil
}

// Edit заменяет текст.
func (n *Note) Edit(text string, now time.Time) error {
	text = shared.NormalizeText(text)
	if text == "" {
		return shared.ErrEmptyText
	}
	n.Text = text
	n.UpdatedAt = now
	return nil
}

// Notes - список заметок.
type Notes []*Note

// Find возвращает заметку по id.
func (ns Notes) Find(id string) (*Note, bool) {
	for _, n := range ns {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Remove удаляет заметку по id.
func (ns Notes) Remove(id string) (Notes, bool) {
	for i, n := range ns {
		if n.ID == id {
			return append(ns[:i:i], ns[i+1:]...), true
		}
	}
	return ns, false
}

// ForLesson возвращает заметки урока; пустой lessonID - все заметки.
func (ns Notes) ForLesson(lessonID string) Notes {
	if lessonID == "" {
		return ns
	}
	out := make(Notes, 0, len(ns))
	for _, n := range ns {
		if n.LessonID == lessonID {
			out = append(out, n)
		}
	}
	return out
}
