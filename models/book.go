package models

import "time"

const BookTable = "lib_books"

type Book struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null;index" json:"title"`
	Author      string    `gorm:"size:100;not null;index" json:"author"`
	Year        int       `gorm:"not null;index" json:"year"`
	Genre       *string   `gorm:"size:50;index" json:"genre,omitempty"`
	ISBN        *string   `gorm:"size:13" json:"isbn,omitempty"`
	Description *string   `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }
