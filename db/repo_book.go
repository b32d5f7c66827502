package db

import (
	"context"
	"strings"

	"library-api/errs"
	"library-api/models"
	"library-api/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repo) CreateBook(ctx context.Context, bk *models.Book) error {
	if err := r.DB.WithContext(ctx).Create(bk).Error; err != nil {
		return dupErr(err, "a book with this title/author or isbn already exists")
	}
	return nil
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var bk models.Book
	if err := r.DB.WithContext(ctx).First(&bk, "id = ?", id).Error; err != nil {
		return nil, firstErr(err, "book not found")
	}
	return &bk, nil
}

type BooksQuery struct {
	Q       string // 模糊搜索：title/author
	Genre   string
	YearMin int
	YearMax int
	SortBy  string // id, title, author, year, genre
	Order   string // asc, desc
	Page    int
	PerPage int
}

type PagedBooks struct {
	Books      []models.Book `json:"books"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	TotalPages int           `json:"totalPages"`
}

var bookSortCols = map[string]string{
	"id":     "id",
	"title":  "title",
	"author": "author",
	"year":   "year",
	"genre":  "genre",
}

func (r *Repo) ListBooks(ctx context.Context, q BooksQuery) (*PagedBooks, error) {
	q.Page, q.PerPage = normPage(q.Page, q.PerPage)

	tx := r.DB.WithContext(ctx).Model(&models.Book{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", like, like)
	}
	if q.Genre != "" {
		tx = tx.Where("genre = ?", q.Genre)
	}
	if q.YearMin > 0 {
		tx = tx.Where("year >= ?", q.YearMin)
	}
	if q.YearMax > 0 {
		tx = tx.Where("year <= ?", q.YearMax)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	col, ok := bookSortCols[q.SortBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(q.Order, "desc") {
		dir = "DESC"
	}

	var books []models.Book
	if err := tx.
		Order(col + " " + dir).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&books).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	return &PagedBooks{
		Books:      books,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: totalPages(total, q.PerPage),
	}, nil
}

// UpdateBook applies a partial update. Set fields are written as one
// column map; empty optional strings clear the column to NULL.
func (r *Repo) UpdateBook(ctx context.Context, id string, p validation.BookPatch) (*models.Book, error) {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Author != nil {
		cols["author"] = *p.Author
	}
	if p.Year != nil {
		cols["year"] = *p.Year
	}
	if p.Genre != nil {
		cols["genre"] = nullable(*p.Genre)
	}
	if p.ISBN != nil {
		cols["isbn"] = nullable(*p.ISBN)
	}
	if p.Description != nil {
		cols["description"] = nullable(*p.Description)
	}

	var bk models.Book
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bk, "id = ?", id).Error; err != nil {
			return firstErr(err, "book not found")
		}
		if err := tx.Model(&bk).Updates(cols).Error; err != nil {
			return dupErr(err, "a book with this title/author or isbn already exists")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bk, nil
}

// DeleteBook removes a book and every loan/review referencing it, in one
// transaction. Blocked while any active loan exists.
func (r *Repo) DeleteBook(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bk models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bk, "id = ?", id).Error; err != nil {
			return firstErr(err, "book not found")
		}
		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND status = ?", id, models.LoanStatusActive).
			Count(&n).Error; err != nil {
			return errs.Unavailable(err)
		}
		if n > 0 {
			return errs.Newf(errs.KindConflict, "book has %d active loan(s)", n)
		}
		// 级联：历史借阅和评论一并删除
		if err := tx.Where("book_id = ?", id).Delete(&models.Loan{}).Error; err != nil {
			return errs.Unavailable(err)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return errs.Unavailable(err)
		}
		if err := tx.Delete(&bk).Error; err != nil {
			return errs.Unavailable(err)
		}
		return nil
	})
}

// nullable turns a cleared optional string into SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
