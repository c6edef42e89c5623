package session

import (
	"fmt"

	"skill-assess/internal/domain"
)

// Snapshot captures the session in its serialisable form. Identity fields (ID, learner,
// start time) belong to the caller and are left empty.
func (s *Session) Snapshot() (*domain.SessionSnapshot, error) {
	answers := make(map[int]domain.AnswerRecord, len(s.answers))
	for i, a := range s.answers {
		raw, err := domain.EncodeAnswer(a)
		if err != nil {
			return nil, fmt.Errorf("failed to encode answer %d: %w", i, err)
		}
		answers[i] = domain.AnswerRecord{Type: a.AnswerType(), Value: raw}
	}
	return &domain.SessionSnapshot{
		ItemName:     s.item.Name,
		CurrentIndex: s.current,
		Completed:    s.completed,
		Answers:      answers,
		Results:      s.Results(),
	}, nil
}

// Restore rebuilds a session of item from snap. A completed snapshot is rescored, so its
// results always follow the current scoring rules.
func Restore(item *domain.Item, snap *domain.SessionSnapshot) (*Session, error) {
	s, err := New(item)
	if err != nil {
		return nil, err
	}
	if snap.ItemName != item.Name {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("snapshot belongs to item %q, not %q", snap.ItemName, item.Name))
	}
	if snap.CurrentIndex < 0 || snap.CurrentIndex >= item.Len() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("snapshot index %d is out of range", snap.CurrentIndex))
	}

	for i, rec := range snap.Answers {
		if _, ok := item.Question(i); !ok {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("snapshot answer %d is out of range", i))
		}
		a, err := domain.DecodeAnswer(rec.Type, rec.Value)
		if err != nil {
			return nil, err
		}
		if a != nil {
			s.answers[i] = a
		}
	}
	s.current = snap.CurrentIndex

	if snap.Completed {
		if err := s.Finish(); err != nil {
			return nil, err
		}
	}
	return s, nil
}
