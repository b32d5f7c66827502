package db

import (
	"context"

	"library-api/errs"
	"library-api/models"
	"library-api/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateReview checks both references exist, then inserts. The unique
// (book_id, user_id) index is what actually holds the one-review-per-pair
// invariant under concurrent requests.
func (r *Repo) CreateReview(ctx context.Context, rv *models.Review) error {
	if _, err := r.FindBookByID(ctx, rv.BookID); err != nil {
		return err
	}
	if _, err := r.FindUserByID(ctx, rv.UserID); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(rv).Error; err != nil {
		return dupErr(err, "user has already reviewed this book")
	}
	return nil
}

func (r *Repo) FindReviewByID(ctx context.Context, id string) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		return nil, firstErr(err, "review not found")
	}
	return &rv, nil
}

type ReviewsQuery struct {
	BookID  string
	UserID  string
	Page    int
	PerPage int
}

type PagedReviews struct {
	Reviews    []models.Review `json:"reviews"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"perPage"`
	TotalPages int             `json:"totalPages"`
}

func (r *Repo) ListReviews(ctx context.Context, q ReviewsQuery) (*PagedReviews, error) {
	q.Page, q.PerPage = normPage(q.Page, q.PerPage)

	tx := r.DB.WithContext(ctx).Model(&models.Review{})
	if q.BookID != "" {
		tx = tx.Where("book_id = ?", q.BookID)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	var reviews []models.Review
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&reviews).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	return &PagedReviews{
		Reviews:    reviews,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: totalPages(total, q.PerPage),
	}, nil
}

func (r *Repo) UpdateReview(ctx context.Context, id string, p validation.ReviewPatch) (*models.Review, error) {
	cols := map[string]any{}
	if p.Rating != nil {
		cols["rating"] = *p.Rating
	}
	if p.Comment != nil {
		cols["comment"] = nullable(*p.Comment)
	}

	var rv models.Review
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rv, "id = ?", id).Error; err != nil {
			return firstErr(err, "review not found")
		}
		if err := tx.Model(&rv).Updates(cols).Error; err != nil {
			return errs.Unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *Repo) DeleteReview(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return errs.Unavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "review not found")
	}
	return nil
}
