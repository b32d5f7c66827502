// Package validation holds the per-entity field rules applied before any
// mutation. Inputs are normalized in place (strings trimmed, emails
// lowercased); a rejection names the offending field and the violated
// constraint. Length limits count characters, not bytes. Partial-update
// patches skip unset (nil) fields, but an explicit empty string on a
// required field is still a rejection.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"library-api/errs"
	"library-api/models"
)

const DateLayout = "2006-01-02"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	isbnRe  = regexp.MustCompile(`^[0-9]{9,12}[0-9Xx]$`)
)

func validRole(r string) bool {
	switch r {
	case models.RoleStudent, models.RoleInstructor, models.RoleAdministrator:
		return true
	}
	return false
}

// phone separators (spaces, dashes, parens) are tolerated and stripped
// before the digit check
func normalizePhone(p string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(p)
}

// ---- Books ----

type BookInput struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Year        int     `json:"year"`
	Genre       *string `json:"genre"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
}

func (in *BookInput) Validate() *errs.Error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if in.Title == "" {
		return errs.Field("title", errs.ConstraintRequired)
	}
	if utf8.RuneCountInString(in.Title) > 200 {
		return errs.Field("title", errs.ConstraintTooLong)
	}
	if in.Author == "" {
		return errs.Field("author", errs.ConstraintRequired)
	}
	if utf8.RuneCountInString(in.Author) > 100 {
		return errs.Field("author", errs.ConstraintTooLong)
	}
	if in.Year < 1000 || in.Year > time.Now().Year() {
		return errs.Field("year", errs.ConstraintOutOfRange)
	}
	if err := checkBookOptionals(&in.Genre, &in.ISBN, &in.Description); err != nil {
		return err
	}
	return nil
}

type BookPatch struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Year        *int    `json:"year"`
	Genre       *string `json:"genre"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
}

func (p *BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil &&
		p.Genre == nil && p.ISBN == nil && p.Description == nil
}

func (p *BookPatch) Validate() *errs.Error {
	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
		if *p.Title == "" {
			return errs.Field("title", errs.ConstraintRequired)
		}
		if utf8.RuneCountInString(*p.Title) > 200 {
			return errs.Field("title", errs.ConstraintTooLong)
		}
	}
	if p.Author != nil {
		*p.Author = strings.TrimSpace(*p.Author)
		if *p.Author == "" {
			return errs.Field("author", errs.ConstraintRequired)
		}
		if utf8.RuneCountInString(*p.Author) > 100 {
			return errs.Field("author", errs.ConstraintTooLong)
		}
	}
	if p.Year != nil && (*p.Year < 1000 || *p.Year > time.Now().Year()) {
		return errs.Field("year", errs.ConstraintOutOfRange)
	}
	return checkBookOptionals(&p.Genre, &p.ISBN, &p.Description)
}

// shared between create and patch; an empty optional string clears the
// field and is stored as NULL
func checkBookOptionals(genre, isbn, description **string) *errs.Error {
	if *genre != nil {
		**genre = strings.TrimSpace(**genre)
		if utf8.RuneCountInString(**genre) > 50 {
			return errs.Field("genre", errs.ConstraintTooLong)
		}
	}
	if *isbn != nil {
		**isbn = strings.TrimSpace(**isbn)
		if utf8.RuneCountInString(**isbn) > 13 {
			return errs.Field("isbn", errs.ConstraintTooLong)
		}
		if **isbn != "" && !isbnRe.MatchString(strings.ReplaceAll(**isbn, "-", "")) {
			return errs.Field("isbn", errs.ConstraintBadFormat)
		}
	}
	if *description != nil {
		**description = strings.TrimSpace(**description)
		if utf8.RuneCountInString(**description) > 500 {
			return errs.Field("description", errs.ConstraintTooLong)
		}
	}
	return nil
}

// ---- Users ----

type UserInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Role    string  `json:"role"`
	Active  *bool   `json:"active"`
}

func (in *UserInput) Validate() *errs.Error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)
	if utf8.RuneCountInString(in.Name) < 2 {
		if in.Name == "" {
			return errs.Field("name", errs.ConstraintRequired)
		}
		return errs.Field("name", errs.ConstraintOutOfRange)
	}
	if utf8.RuneCountInString(in.Name) > 100 {
		return errs.Field("name", errs.ConstraintTooLong)
	}
	if in.Email == "" {
		return errs.Field("email", errs.ConstraintRequired)
	}
	if utf8.RuneCountInString(in.Email) > 150 {
		return errs.Field("email", errs.ConstraintTooLong)
	}
	if !emailRe.MatchString(in.Email) {
		return errs.Field("email", errs.ConstraintBadFormat)
	}
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	if !validRole(in.Role) {
		return errs.Field("role", errs.ConstraintInvalidEnum)
	}
	return checkUserOptionals(&in.Phone, &in.Address)
}

type UserPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Role    *string `json:"role"`
	Active  *bool   `json:"active"`
}

func (p *UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.Address == nil && p.Role == nil && p.Active == nil
}

func (p *UserPatch) Validate() *errs.Error {
	if p.Name != nil {
		*p.Name = strings.TrimSpace(*p.Name)
		if *p.Name == "" {
			return errs.Field("name", errs.ConstraintRequired)
		}
		if utf8.RuneCountInString(*p.Name) < 2 {
			return errs.Field("name", errs.ConstraintOutOfRange)
		}
		if utf8.RuneCountInString(*p.Name) > 100 {
			return errs.Field("name", errs.ConstraintTooLong)
		}
	}
	if p.Email != nil {
		*p.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		if *p.Email == "" {
			return errs.Field("email", errs.ConstraintRequired)
		}
		if utf8.RuneCountInString(*p.Email) > 150 {
			return errs.Field("email", errs.ConstraintTooLong)
		}
		if !emailRe.MatchString(*p.Email) {
			return errs.Field("email", errs.ConstraintBadFormat)
		}
	}
	if p.Role != nil {
		*p.Role = strings.TrimSpace(*p.Role)
		if !validRole(*p.Role) {
			return errs.Field("role", errs.ConstraintInvalidEnum)
		}
	}
	return checkUserOptionals(&p.Phone, &p.Address)
}

func checkUserOptionals(phone, address **string) *errs.Error {
	if *phone != nil {
		**phone = strings.TrimSpace(**phone)
		if **phone != "" && !phoneRe.MatchString(normalizePhone(**phone)) {
			return errs.Field("phone", errs.ConstraintBadFormat)
		}
	}
	if *address != nil {
		**address = strings.TrimSpace(**address)
		if utf8.RuneCountInString(**address) > 300 {
			return errs.Field("address", errs.ConstraintTooLong)
		}
	}
	return nil
}

// ---- Loans ----

// The expected return date stays a string here: parsing and the
// strictly-in-the-future check run last in the loan creation order,
// after existence/state/capacity checks.
type LoanInput struct {
	BookID             string `json:"bookId"`
	UserID             string `json:"userId"`
	ExpectedReturnDate string `json:"expectedReturnDate"`
}

func (in *LoanInput) Validate() *errs.Error {
	in.BookID = strings.TrimSpace(in.BookID)
	in.UserID = strings.TrimSpace(in.UserID)
	in.ExpectedReturnDate = strings.TrimSpace(in.ExpectedReturnDate)
	if in.BookID == "" {
		return errs.Field("bookId", errs.ConstraintRequired)
	}
	if in.UserID == "" {
		return errs.Field("userId", errs.ConstraintRequired)
	}
	if in.ExpectedReturnDate == "" {
		return errs.Field("expectedReturnDate", errs.ConstraintRequired)
	}
	return nil
}

// ---- Reviews ----

type ReviewInput struct {
	BookID  string  `json:"bookId"`
	UserID  string  `json:"userId"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (in *ReviewInput) Validate() *errs.Error {
	in.BookID = strings.TrimSpace(in.BookID)
	in.UserID = strings.TrimSpace(in.UserID)
	if in.BookID == "" {
		return errs.Field("bookId", errs.ConstraintRequired)
	}
	if in.UserID == "" {
		return errs.Field("userId", errs.ConstraintRequired)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return errs.Field("rating", errs.ConstraintOutOfRange)
	}
	return checkComment(&in.Comment)
}

type ReviewPatch struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (p *ReviewPatch) Empty() bool { return p.Rating == nil && p.Comment == nil }

func (p *ReviewPatch) Validate() *errs.Error {
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return errs.Field("rating", errs.ConstraintOutOfRange)
	}
	return checkComment(&p.Comment)
}

func checkComment(comment **string) *errs.Error {
	if *comment != nil {
		**comment = strings.TrimSpace(**comment)
		if utf8.RuneCountInString(**comment) > 1000 {
			return errs.Field("comment", errs.ConstraintTooLong)
		}
	}
	return nil
}
