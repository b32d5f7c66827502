package validation

import (
	"strings"
	"testing"

	"library-api/errs"
	"library-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestBookInputValidate(t *testing.T) {
	t.Run("accepts and trims a full record", func(t *testing.T) {
		in := BookInput{
			Title:  "  Cien años de soledad ",
			Author: " Gabriel García Márquez ",
			Year:   1967,
			Genre:  str(" Realismo mágico "),
			ISBN:   str("9780307474728"),
		}
		require.Nil(t, in.Validate())
		assert.Equal(t, "Cien años de soledad", in.Title)
		assert.Equal(t, "Gabriel García Márquez", in.Author)
		assert.Equal(t, "Realismo mágico", *in.Genre)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		in := BookInput{Title: "   ", Author: "X", Year: 2000}
		err := in.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "title", err.Field)
		assert.Equal(t, "title: required", err.Msg)
	})

	t.Run("rejects overlong title", func(t *testing.T) {
		in := BookInput{Title: strings.Repeat("a", 201), Author: "X", Year: 2000}
		err := in.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "title: too_long", err.Msg)
	})

	t.Run("length limit counts characters, not bytes", func(t *testing.T) {
		// 200 accented chars is 400 bytes but still within the limit
		in := BookInput{Title: strings.Repeat("ñ", 200), Author: "X", Year: 2000}
		assert.Nil(t, in.Validate())

		in = BookInput{Title: strings.Repeat("ñ", 201), Author: "X", Year: 2000}
		err := in.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "title: too_long", err.Msg)
	})

	t.Run("rejects year out of range", func(t *testing.T) {
		for _, year := range []int{999, 3000} {
			in := BookInput{Title: "T", Author: "A", Year: year}
			err := in.Validate()
			require.NotNil(t, err)
			assert.Equal(t, "year", err.Field)
			assert.Equal(t, errs.KindInvalidInput, err.Kind)
		}
	})

	t.Run("rejects malformed isbn", func(t *testing.T) {
		in := BookInput{Title: "T", Author: "A", Year: 2000, ISBN: str("not-an-isbn")}
		err := in.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "isbn: bad_format", err.Msg)
	})

	t.Run("accepts hyphenated isbn", func(t *testing.T) {
		in := BookInput{Title: "T", Author: "A", Year: 2000, ISBN: str("0-306-40615-2")}
		assert.Nil(t, in.Validate())
	})
}

func TestBookPatchValidate(t *testing.T) {
	t.Run("unset fields are skipped", func(t *testing.T) {
		p := BookPatch{}
		assert.True(t, p.Empty())
		assert.Nil(t, p.Validate())
	})

	t.Run("explicit empty title is required, not skipped", func(t *testing.T) {
		p := BookPatch{Title: str("  ")}
		err := p.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "title: required", err.Msg)
	})

	t.Run("empty optional clears without error", func(t *testing.T) {
		p := BookPatch{Genre: str("")}
		assert.Nil(t, p.Validate())
		assert.False(t, p.Empty())
	})
}

func TestUserInputValidate(t *testing.T) {
	t.Run("normalizes email to lowercase", func(t *testing.T) {
		in := UserInput{Name: "Ana", Email: " Ana.Lopez@Example.COM "}
		require.Nil(t, in.Validate())
		assert.Equal(t, "ana.lopez@example.com", in.Email)
		assert.Equal(t, models.RoleStudent, in.Role) // default applied
	})

	t.Run("rejects bad email format", func(t *testing.T) {
		for _, email := range []string{"nope", "a@b", "a @b.com", "@x.com"} {
			in := UserInput{Name: "Ana", Email: email}
			err := in.Validate()
			require.NotNil(t, err, "email %q", email)
			assert.Equal(t, "email: bad_format", err.Msg)
		}
	})

	t.Run("distinguishes empty name from short name", func(t *testing.T) {
		err := (&UserInput{Name: "", Email: "a@b.c"}).Validate()
		require.NotNil(t, err)
		assert.Equal(t, "name: required", err.Msg)

		err = (&UserInput{Name: "A", Email: "a@b.c"}).Validate()
		require.NotNil(t, err)
		assert.Equal(t, "name: out_of_range", err.Msg)
	})

	t.Run("name minimum counts characters, not bytes", func(t *testing.T) {
		// "Ñ" is 2 bytes but 1 char, still below the 2-char minimum
		err := (&UserInput{Name: "Ñ", Email: "a@b.c"}).Validate()
		require.NotNil(t, err)
		assert.Equal(t, "name: out_of_range", err.Msg)

		assert.Nil(t, (&UserInput{Name: "Ño", Email: "a@b.c"}).Validate())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		in := UserInput{Name: "Ana", Email: "a@b.c", Role: "wizard"}
		err := in.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "role: invalid_enum_value", err.Msg)
	})

	t.Run("accepts phone with separators", func(t *testing.T) {
		in := UserInput{Name: "Ana", Email: "a@b.c", Phone: str("+34 (91) 123-45-67")}
		assert.Nil(t, in.Validate())
	})

	t.Run("rejects phone with letters", func(t *testing.T) {
		in := UserInput{Name: "Ana", Email: "a@b.c", Phone: str("CALL-ME")}
		err := in.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "phone: bad_format", err.Msg)
	})
}

func TestUserPatchValidate(t *testing.T) {
	t.Run("empty email on patch is required", func(t *testing.T) {
		p := UserPatch{Email: str("")}
		err := p.Validate()
		require.NotNil(t, err)
		assert.Equal(t, "email: required", err.Msg)
	})

	t.Run("active-only patch is valid and not empty", func(t *testing.T) {
		v := false
		p := UserPatch{Active: &v}
		assert.False(t, p.Empty())
		assert.Nil(t, p.Validate())
	})
}

func TestLoanInputValidate(t *testing.T) {
	in := LoanInput{BookID: "b", UserID: "u", ExpectedReturnDate: "2031-01-02"}
	assert.Nil(t, in.Validate())

	err := (&LoanInput{UserID: "u", ExpectedReturnDate: "2031-01-02"}).Validate()
	require.NotNil(t, err)
	assert.Equal(t, "bookId: required", err.Msg)

	err = (&LoanInput{BookID: "b", UserID: "u"}).Validate()
	require.NotNil(t, err)
	assert.Equal(t, "expectedReturnDate: required", err.Msg)
}

func TestReviewInputValidate(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		in := ReviewInput{BookID: "b", UserID: "u", Rating: rating}
		err := in.Validate()
		require.NotNil(t, err, "rating %d", rating)
		assert.Equal(t, "rating: out_of_range", err.Msg)
	}

	in := ReviewInput{BookID: "b", UserID: "u", Rating: 5, Comment: str(strings.Repeat("x", 1001))}
	err := in.Validate()
	require.NotNil(t, err)
	assert.Equal(t, "comment: too_long", err.Msg)

	in = ReviewInput{BookID: "b", UserID: "u", Rating: 3}
	assert.Nil(t, in.Validate())
}
