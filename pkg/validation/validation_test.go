package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email      string  `json:"email" validate:"required,email"`
	FirstName  string  `json:"firstName" validate:"required,notblank,max=5"`
	Experience *int    `json:"experience" validate:"required,min=0"`
	ResumeURL  *string `json:"resumeUrl,omitempty" validate:"omitempty,url"`
	Status     string  `json:"status" validate:"omitempty,candidate_status"`
	NickName   string  `json:"nickName" validate:"max=3"`
}

func intPtr(i int) *int { return &i }

func TestNew_ReportsJSONFieldNames(t *testing.T) {
	v := New()
	bad := "not a url"
	err := v.Struct(sample{
		Email:      "nope",
		FirstName:  "   ",
		Experience: intPtr(-1),
		ResumeURL:  &bad,
		Status:     "ARCHIVED",
		NickName:   "Ladybird",
	})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "Invalid email address", fields["email"])
	assert.Equal(t, "First name must not be blank", fields["firstName"])
	assert.Equal(t, "Experience cannot be negative", fields["experience"])
	assert.Equal(t, "Resume URL: Invalid URL", fields["resumeUrl"])
	assert.Equal(t, "Status must be one of: ACTIVE, INACTIVE, BLACKLISTED", fields["status"])
	assert.Equal(t, "Nick Name too long (max 3 characters)", fields["nickName"])
}

func TestNew_AcceptsValidInput(t *testing.T) {
	url := "https://example.com/cv.pdf"
	err := New().Struct(sample{
		Email:      "ada@example.com",
		FirstName:  "Ada",
		Experience: intPtr(0),
		ResumeURL:  &url,
		Status:     "INACTIVE",
	})
	assert.NoError(t, err)
}

func TestRequiredPointer(t *testing.T) {
	err := New().Struct(sample{Email: "ada@example.com", FirstName: "Ada"})
	require.Error(t, err)
	assert.Equal(t, []string{"Experience is required"}, FormatValidationErrors(err))
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	fields := FieldErrors(errors.New("boom"))
	assert.Equal(t, map[string]string{"_": "boom"}, fields)
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}
