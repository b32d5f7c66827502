package models

import "time"

const ReviewTable = "lib_reviews"

type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BookID    string    `gorm:"type:uuid;not null;uniqueIndex:lib_reviews_book_user" json:"bookId"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:lib_reviews_book_user;index" json:"userId"`
	Rating    int       `gorm:"not null;index" json:"rating"`
	Comment   *string   `gorm:"size:1000" json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Review) TableName() string { return ReviewTable }
