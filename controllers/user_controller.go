package controllers

import (
	"net/http"
	"strconv"

	"library-api/app"
	"library-api/cache"
	"library-api/db"
	"library-api/models"
	"library-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	repo  *db.Repo
	stats *cache.StatsCache
}

func NewUserController(repo *db.Repo, stats *cache.StatsCache) *UserController {
	return &UserController{repo: repo, stats: stats}
}

// POST /api/users
func (uc *UserController) CreateUser(c *gin.Context) {
	var in validation.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if verr := in.Validate(); verr != nil {
		fail(c, verr)
		return
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	u := &models.User{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Phone:   optPtr(in.Phone),
		Address: optPtr(in.Address),
		Role:    in.Role,
		Active:  active,
	}
	if err := uc.repo.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GET /api/users?q=&role=&active=&page=&per_page=
func (uc *UserController) ListUsers(c *gin.Context) {
	q := db.UsersQuery{
		Q:    c.Query("q"),
		Role: c.Query("role"),
	}
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "active must be a boolean"})
			return
		}
		q.Active = &b
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))

	res, err := uc.repo.ListUsers(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// PUT /api/users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	var p validation.UserPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if p.Empty() {
		c.JSON(http.StatusBadRequest, app.H{"error": "no fields to update"})
		return
	}
	if verr := p.Validate(); verr != nil {
		fail(c, verr)
		return
	}
	u, err := uc.repo.UpdateUser(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.repo.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	_ = uc.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, app.H{"ok": true})
}
