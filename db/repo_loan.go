package db

import (
	"context"
	"time"

	"library-api/errs"
	"library-api/models"
	"library-api/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// A user may hold this many active loans at once.
const maxActiveLoansPerUser = 3

// LoanRow is the read shape for loans: joined book title and user name,
// dates as YYYY-MM-DD strings, status with the overdue classification
// applied.
type LoanRow struct {
	ID             string    `json:"id"`
	BookID         string    `json:"bookId"`
	UserID         string    `json:"userId"`
	BookTitle      string    `json:"bookTitle"`
	UserName       string    `json:"userName"`
	LoanedAt       time.Time `json:"loanedAt"`
	ExpectedReturn string    `json:"expectedReturnDate"`
	ActualReturn   *string   `json:"actualReturnDate,omitempty"`
	Status         string    `json:"status"`
}

const loanRowSelect = `
	l.id, l.book_id, l.user_id,
	b.title AS book_title,
	u.name  AS user_name,
	l.loaned_at,
	TO_CHAR(l.expected_return_date, 'YYYY-MM-DD') AS expected_return,
	TO_CHAR(l.actual_return_date, 'YYYY-MM-DD')   AS actual_return,
	CASE WHEN l.status = 'active' AND l.expected_return_date < CURRENT_DATE
	     THEN 'overdue' ELSE l.status END         AS status`

func (r *Repo) loanRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.LoanTable+" l").
		Select(loanRowSelect).
		Joins("JOIN "+models.BookTable+" b ON b.id = l.book_id").
		Joins("JOIN "+models.UserTable+" u ON u.id = l.user_id")
}

// futureDate checks a YYYY-MM-DD value against the database clock, the
// same clock the overdue classification reads.
func futureDate(tx *gorm.DB, date string) error {
	var future bool
	if err := tx.Raw("SELECT ?::date > CURRENT_DATE", date).Scan(&future).Error; err != nil {
		return errs.Unavailable(err)
	}
	if !future {
		return errs.New(errs.KindInvalidInput, "expected return date must be in the future")
	}
	return nil
}

// CreateLoan runs the borrowing eligibility checks in order and creates
// the loan in one transaction. The book and user rows are locked first so
// concurrent attempts serialize; the partial unique index on
// (book_id) WHERE status='active' backstops the one-active-loan-per-book
// invariant either way.
func (r *Repo) CreateLoan(ctx context.Context, in validation.LoanInput) (*LoanRow, error) {
	var row LoanRow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 存在性检查（先书后人），顺便锁行
		var bk models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bk, "id = ?", in.BookID).Error; err != nil {
			return firstErr(err, "book not found")
		}
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "id = ?", in.UserID).Error; err != nil {
			return firstErr(err, "user not found")
		}
		// 2) 用户必须是启用状态
		if !u.Active {
			return errs.New(errs.KindInvalidState, "user account is inactive")
		}
		// 3) 书不能已被借出
		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND status = ?", in.BookID, models.LoanStatusActive).
			Count(&n).Error; err != nil {
			return errs.Unavailable(err)
		}
		if n > 0 {
			return errs.New(errs.KindConflict, "book is already on loan")
		}
		// 4) 每人最多 3 本
		if err := tx.Model(&models.Loan{}).
			Where("user_id = ? AND status = ?", in.UserID, models.LoanStatusActive).
			Count(&n).Error; err != nil {
			return errs.Unavailable(err)
		}
		if n >= maxActiveLoansPerUser {
			return errs.Newf(errs.KindLimitExceeded, "user already holds %d active loans", maxActiveLoansPerUser)
		}
		// 5) 手上有逾期未还则禁止再借
		if err := tx.Model(&models.Loan{}).
			Where("user_id = ? AND status = ? AND expected_return_date < CURRENT_DATE",
				in.UserID, models.LoanStatusActive).
			Count(&n).Error; err != nil {
			return errs.Unavailable(err)
		}
		if n > 0 {
			return errs.New(errs.KindBlocked, "user has overdue loans")
		}
		// 6) 归还日期必须晚于数据库当天日期（和逾期判定用同一个时钟）
		due, err := time.Parse(validation.DateLayout, in.ExpectedReturnDate)
		if err != nil {
			return errs.Field("expectedReturnDate", errs.ConstraintBadFormat)
		}
		if err := futureDate(tx, in.ExpectedReturnDate); err != nil {
			return err
		}

		l := &models.Loan{
			ID:             uuid.NewString(),
			BookID:         bk.ID,
			UserID:         u.ID,
			LoanedAt:       time.Now().UTC(),
			ExpectedReturn: due,
			Status:         models.LoanStatusActive,
		}
		if err := tx.Create(l).Error; err != nil {
			return dupErr(err, "book is already on loan")
		}
		row = LoanRow{
			ID:             l.ID,
			BookID:         l.BookID,
			UserID:         l.UserID,
			BookTitle:      bk.Title,
			UserName:       u.Name,
			LoanedAt:       l.LoanedAt,
			ExpectedReturn: due.Format(validation.DateLayout),
			Status:         l.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ReturnLoan moves an active loan to returned and stamps the actual
// return date. A second call on the same loan is rejected, it does not
// silently succeed.
func (r *Repo) ReturnLoan(ctx context.Context, loanID string) (*LoanRow, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return firstErr(err, "loan not found")
		}
		if l.Status != models.LoanStatusActive {
			return errs.New(errs.KindInvalidState, "loan is already returned")
		}
		if err := tx.Model(&l).Updates(map[string]any{
			"status":             models.LoanStatusReturned,
			"actual_return_date": gorm.Expr("CURRENT_DATE"),
		}).Error; err != nil {
			return errs.Unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, loanID)
}

func (r *Repo) GetLoan(ctx context.Context, loanID string) (*LoanRow, error) {
	var row LoanRow
	if err := r.loanRows(ctx).Where("l.id = ?", loanID).Take(&row).Error; err != nil {
		return nil, firstErr(err, "loan not found")
	}
	return &row, nil
}

type LoansQuery struct {
	Status  string // "", active, returned, overdue
	Page    int
	PerPage int
}

type PagedLoans struct {
	Loans      []LoanRow `json:"loans"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
	TotalPages int       `json:"totalPages"`
}

// statusCond narrows the list to one read-time classification: "active"
// means on loan and not yet due, "overdue" means on loan and past due.
func statusCond(tx *gorm.DB, status string) *gorm.DB {
	switch status {
	case models.LoanStatusActive:
		return tx.Where("l.status = ? AND l.expected_return_date >= CURRENT_DATE", models.LoanStatusActive)
	case models.LoanStatusOverdue:
		return tx.Where("l.status = ? AND l.expected_return_date < CURRENT_DATE", models.LoanStatusActive)
	case models.LoanStatusReturned:
		return tx.Where("l.status = ?", models.LoanStatusReturned)
	}
	return tx
}

func (r *Repo) ListLoans(ctx context.Context, q LoansQuery) (*PagedLoans, error) {
	q.Page, q.PerPage = normPage(q.Page, q.PerPage)

	count := r.DB.WithContext(ctx).Table(models.LoanTable + " l")
	count = statusCond(count, q.Status)
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	qry := statusCond(r.loanRows(ctx), q.Status).
		Order("l.loaned_at DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage)

	var rows []LoanRow
	if err := qry.Scan(&rows).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	return &PagedLoans{
		Loans:      rows,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: totalPages(total, q.PerPage),
	}, nil
}

// ExtendLoan changes the expected return date of an active loan. The
// lifecycle itself only moves through ReturnLoan.
func (r *Repo) ExtendLoan(ctx context.Context, loanID, expectedReturnDate string) (*LoanRow, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "id = ?", loanID).Error; err != nil {
			return firstErr(err, "loan not found")
		}
		if l.Status != models.LoanStatusActive {
			return errs.New(errs.KindInvalidState, "only active loans can be extended")
		}
		due, err := time.Parse(validation.DateLayout, expectedReturnDate)
		if err != nil {
			return errs.Field("expectedReturnDate", errs.ConstraintBadFormat)
		}
		if err := futureDate(tx, expectedReturnDate); err != nil {
			return err
		}
		if err := tx.Model(&l).Update("expected_return_date", due).Error; err != nil {
			return errs.Unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetLoan(ctx, loanID)
}

func (r *Repo) DeleteLoan(ctx context.Context, loanID string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Loan{}, "id = ?", loanID)
	if res.Error != nil {
		return errs.Unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "loan not found")
	}
	return nil
}
