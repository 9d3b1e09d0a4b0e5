package person_test

import (
	"testing"

	"churchops/internal/person"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 010-2030": "+15550102030",
		"555.010.2030":      "5550102030",
		" 0803 123 4567 ":   "08031234567",
		"12+34":             "1234",
		"+":                 "",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, person.NormalizePhone(in), in)
	}
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, person.StringPtr("   "))
	assert.Equal(t, "a@b.co", *person.StringPtr(" a@b.co "))
}

func TestParseActive(t *testing.T) {
	v, err := person.ParseActive("")
	assert.NoError(t, err)
	assert.True(t, *v)

	v, err = person.ParseActive("all")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = person.ParseActive("false")
	assert.NoError(t, err)
	assert.False(t, *v)

	_, err = person.ParseActive("maybe")
	assert.Error(t, err)
}
