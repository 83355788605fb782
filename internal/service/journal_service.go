package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
)

// JournalInput 创建参数
type JournalInput struct {
	Title     string
	Content   string
	MoodID    *uint
	IsPrivate bool
}

// JournalPatch 部分更新，nil 字段保持不变
type JournalPatch struct {
	Title     *string
	Content   *string
	MoodID    *uint
	IsPrivate *bool
}

// JournalService 日记，仅作者可读写自己的日记
type JournalService struct {
	store *repository.Store
	now   func() time.Time
}

func NewJournalService(store *repository.Store) *JournalService {
	return &JournalService{store: store, now: time.Now}
}

// List 用户的日记，最新在前
func (s *JournalService) List(ctx context.Context, userID uint) ([]model.Journal, error) {
	list, err := s.store.WithContext(ctx).Journals.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("查询日记失败: %w", err)
	}
	return list, nil
}

func (s *JournalService) Get(ctx context.Context, id, userID uint) (*model.Journal, error) {
	return s.owned(s.store.WithContext(ctx), id, userID)
}

func (s *JournalService) Create(ctx context.Context, userID uint, in JournalInput) (*model.Journal, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, validationError("Title and content are required")
	}
	store := s.store.WithContext(ctx)
	if err := s.checkMood(store, in.MoodID); err != nil {
		return nil, err
	}
	j := &model.Journal{
		UserID:    userID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		MoodID:    in.MoodID,
		IsPrivate: in.IsPrivate,
	}
	if err := store.Journals.Create(j); err != nil {
		return nil, fmt.Errorf("创建日记失败: %w", err)
	}
	return j, nil
}

func (s *JournalService) Update(ctx context.Context, id, userID uint, patch JournalPatch) (*model.Journal, error) {
	var j *model.Journal
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if j, err = s.owned(tx, id, userID); err != nil {
			return err
		}
		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return validationError("Title cannot be empty")
			}
			j.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Content != nil {
			if strings.TrimSpace(*patch.Content) == "" {
				return validationError("Content cannot be empty")
			}
			j.Content = *patch.Content
		}
		if patch.MoodID != nil {
			if err := s.checkMood(tx, patch.MoodID); err != nil {
				return err
			}
			j.MoodID = patch.MoodID
		}
		if patch.IsPrivate != nil {
			j.IsPrivate = *patch.IsPrivate
		}
		now := s.now()
		j.UpdatedAt = &now
		if err := tx.Journals.Save(j); err != nil {
			return fmt.Errorf("更新日记失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *JournalService) Delete(ctx context.Context, id, userID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.owned(tx, id, userID); err != nil {
			return err
		}
		if err := tx.Journals.Delete(id); err != nil {
			return fmt.Errorf("删除日记失败: %w", err)
		}
		return nil
	})
}

func (s *JournalService) owned(store *repository.Store, id, userID uint) (*model.Journal, error) {
	j, err := store.Journals.GetByID(id)
	if err != nil {
		return nil, translateLookup(err, "Journal entry not found", "查询日记失败")
	}
	if j.UserID != userID {
		return nil, permissionError("Not your journal entry")
	}
	return j, nil
}

func (s *JournalService) checkMood(store *repository.Store, moodID *uint) error {
	if moodID == nil {
		return nil
	}
	ok, err := store.Moods.Exists(*moodID)
	if err != nil {
		return fmt.Errorf("查询心情记录失败: %w", err)
	}
	if !ok {
		return notFoundError("Mood not found")
	}
	return nil
}
