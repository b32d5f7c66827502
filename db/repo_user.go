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

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return dupErr(err, "email already registered")
	}
	return nil
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, firstErr(err, "user not found")
	}
	return &u, nil
}

type UsersQuery struct {
	Q       string // 模糊搜索：name/email
	Role    string
	Active  *bool
	Page    int
	PerPage int
}

type PagedUsers struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	TotalPages int           `json:"totalPages"`
}

func (r *Repo) ListUsers(ctx context.Context, q UsersQuery) (*PagedUsers, error) {
	q.Page, q.PerPage = normPage(q.Page, q.PerPage)

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR email LIKE ?", like, like)
	}
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.Active != nil {
		tx = tx.Where("active = ?", *q.Active)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, errs.Unavailable(err)
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&users).Error; err != nil {
		return nil, errs.Unavailable(err)
	}
	return &PagedUsers{
		Users:      users,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: totalPages(total, q.PerPage),
	}, nil
}

func (r *Repo) UpdateUser(ctx context.Context, id string, p validation.UserPatch) (*models.User, error) {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Phone != nil {
		cols["phone"] = nullable(*p.Phone)
	}
	if p.Address != nil {
		cols["address"] = nullable(*p.Address)
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}

	var u models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "id = ?", id).Error; err != nil {
			return firstErr(err, "user not found")
		}
		if err := tx.Model(&u).Updates(cols).Error; err != nil {
			return dupErr(err, "email already registered by another user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user and every loan/review referencing them, in
// one transaction. Blocked while any active loan exists.
func (r *Repo) DeleteUser(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, "id = ?", id).Error; err != nil {
			return firstErr(err, "user not found")
		}
		var n int64
		if err := tx.Model(&models.Loan{}).
			Where("user_id = ? AND status = ?", id, models.LoanStatusActive).
			Count(&n).Error; err != nil {
			return errs.Unavailable(err)
		}
		if n > 0 {
			return errs.Newf(errs.KindConflict, "user has %d active loan(s)", n)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Loan{}).Error; err != nil {
			return errs.Unavailable(err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return errs.Unavailable(err)
		}
		if err := tx.Delete(&u).Error; err != nil {
			return errs.Unavailable(err)
		}
		return nil
	})
}
