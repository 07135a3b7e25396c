package postgres

import (
	"couple-journal-backend/internal/repository"

	"gorm.io/gorm"
)

// NewStore wires every gorm repository onto one connection.
func NewStore(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:    NewUserRepository(db),
		Couples:  NewCoupleRepository(db),
		Messages: NewMessageRepository(db),
		Diary:    NewDiaryRepository(db),
		Places:   NewPlaceRepository(db),
		Bucket:   NewBucketListRepository(db),
		Events:   NewEventRepository(db),
		Expenses: NewExpenseRepository(db),
		Moods:    NewMoodRepository(db),
	}
}
