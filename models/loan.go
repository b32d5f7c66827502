package models

import "time"

const LoanTable = "lib_loans"

// Stored loan states. "overdue" is never stored: it is derived at read
// time from an active loan whose expected return date has passed.
const (
	LoanStatusActive   = "active"
	LoanStatusReturned = "returned"
	LoanStatusOverdue  = "overdue"
)

type Loan struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	BookID         string     `gorm:"type:uuid;index;not null" json:"bookId"`
	UserID         string     `gorm:"type:uuid;index;not null" json:"userId"`
	LoanedAt       time.Time  `gorm:"index;not null" json:"loanedAt"`
	ExpectedReturn time.Time  `gorm:"column:expected_return_date;type:date;not null;index" json:"-"`
	ActualReturn   *time.Time `gorm:"column:actual_return_date;type:date" json:"-"`
	Status         string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Loan) TableName() string { return LoanTable }
