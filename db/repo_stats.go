package db

import (
	"context"
	"math"

	"library-api/errs"
	"library-api/models"
)

// GroupCount is one bucket of a grouped count. Slices keep the required
// ordering, which a map would lose in JSON.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type YearCount struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type Statistics struct {
	TotalBooks    int64        `json:"totalBooks"`
	TotalUsers    int64        `json:"totalUsers"`
	TotalLoans    int64        `json:"totalLoans"`
	TotalReviews  int64        `json:"totalReviews"`
	BooksByGenre  []GroupCount `json:"booksByGenre"`
	BooksByYear   []YearCount  `json:"booksByYear"`
	UsersByRole   []GroupCount `json:"usersByRole"`
	ActiveLoans   int64        `json:"activeLoans"`
	OverdueLoans  int64        `json:"overdueLoans"`
	AverageRating float64      `json:"averageRating"`
	UniqueAuthors int64        `json:"uniqueAuthors"`
	UniqueGenres  int64        `json:"uniqueGenres"`
}

// Statistics computes the aggregate view over current store state. Pure
// read side, nothing is mutated or kept.
func (r *Repo) Statistics(ctx context.Context) (*Statistics, error) {
	db := r.DB.WithContext(ctx)
	var s Statistics

	if err := db.Model(&models.Book{}).Count(&s.TotalBooks).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	if err := db.Model(&models.Loan{}).Count(&s.TotalLoans).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	if err := db.Model(&models.Review{}).Count(&s.TotalReviews).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	// 按流派分组（空值不参与），数量降序
	if err := db.Model(&models.Book{}).
		Select("genre AS key, COUNT(*) AS count").
		Where("genre IS NOT NULL AND genre <> ''").
		Group("genre").
		Order("count DESC").
		Scan(&s.BooksByGenre).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	// 最近十年出版的书，按年份降序
	if err := db.Model(&models.Book{}).
		Select("year AS year, COUNT(*) AS count").
		Where("year >= EXTRACT(YEAR FROM NOW())::int - 10").
		Group("year").
		Order("year DESC").
		Scan(&s.BooksByYear).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	if err := db.Model(&models.User{}).
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Order("count DESC").
		Scan(&s.UsersByRole).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	if err := db.Model(&models.Loan{}).
		Where("status = ?", models.LoanStatusActive).
		Count(&s.ActiveLoans).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	if err := db.Model(&models.Loan{}).
		Where("status = ? AND expected_return_date < CURRENT_DATE", models.LoanStatusActive).
		Count(&s.OverdueLoans).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	var avg float64
	if err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	s.AverageRating = round2(avg)

	if err := db.Model(&models.Book{}).
		Select("COUNT(DISTINCT author)").
		Scan(&s.UniqueAuthors).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	if err := db.Model(&models.Book{}).
		Select("COUNT(DISTINCT genre)").
		Where("genre IS NOT NULL AND genre <> ''").
		Scan(&s.UniqueGenres).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	return &s, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
