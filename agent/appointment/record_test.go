package appointment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineAndSerialize(t *testing.T) {
	t.Parallel()

	rec, err := ParseLine(" Ana , ana@x.com, 2025-03-10 ,10:00:00, virtual ")
	require.NoError(t, err)
	assert.Empty(t, rec.Code)

	rec.Code = "ANA-0123abcd"
	assert.Equal(t,
		[]string{"ANA-0123abcd", "Ana", "ana@x.com", "10/03/2025", "10:00:00", "virtual"},
		Serialize(rec),
	)
}

func TestParseAcceptsShortClock(t *testing.T) {
	t.Parallel()

	rec, err := Parse([]string{"Luis", "luis@x.com", "2025-03-10", "9:30", "presencial"})
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", FormatClock(rec.Time))
}

func TestParseRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"too few fields": {"Ana", "ana@x.com", "2025-03-10", "10:00:00"},
		"empty field":    {"Ana", "", "2025-03-10", "10:00:00", "virtual"},
		"bad date":       {"Ana", "ana@x.com", "10/03/2025", "10:00:00", "virtual"},
		"bad time":       {"Ana", "ana@x.com", "2025-03-10", "diez", "virtual"},
		"bad email":      {"Ana", "ana-at-x", "2025-03-10", "10:00:00", "virtual"},
	}
	for name, fields := range cases {
		fields := fields
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(fields)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseDateAcceptsBothLayouts(t *testing.T) {
	t.Parallel()

	a, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	b, err := ParseDate("10/03/2025")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	_, err = ParseDate("March 10")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerateCodeShape(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[A-Z]{3}-[0-9a-f]{8}$`)

	code := GenerateCode("Ana")
	assert.Regexp(t, `^ANA-[0-9a-f]{8}$`, code)

	short := GenerateCode("al")
	assert.Regexp(t, `^ALX-[0-9a-f]{8}$`, short)

	for i := 0; i < 20; i++ {
		assert.True(t, pattern.MatchString(GenerateCode("juan perez")))
	}
	assert.NotEqual(t, GenerateCode("Ana"), GenerateCode("Ana"))
}
