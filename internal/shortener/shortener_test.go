package shortener

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neverExists(string) (bool, error) { return false, nil }

func TestGenerateCodeShape(t *testing.T) {
	s := New(neverExists)
	pattern := regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

	for i := 0; i < 50; i++ {
		code, err := s.GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateCodeCustomLength(t *testing.T) {
	s := New(neverExists, WithCodeLength(12))

	code, err := s.GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 12)
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	s := New(exists)
	code, err := s.GenerateCode()
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, calls)
}

func TestGenerateCodeExhaustsRetryBudget(t *testing.T) {
	calls := 0
	alwaysCollide := func(string) (bool, error) {
		calls++
		return true, nil
	}

	s := New(alwaysCollide)
	_, err := s.GenerateCode()
	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, calls)
}

func TestGenerateCodePropagatesCheckError(t *testing.T) {
	broken := func(string) (bool, error) {
		return false, errors.New("db down")
	}

	s := New(broken)
	_, err := s.GenerateCode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestBuildShortURL(t *testing.T) {
	assert.Equal(t, "https://aff.example.com/r/Ab3xY9Qz", BuildShortURL("https://aff.example.com/", "Ab3xY9Qz"))
	assert.Equal(t, "https://aff.example.com/r/Ab3xY9Qz", BuildShortURL("https://aff.example.com", "Ab3xY9Qz"))
}
