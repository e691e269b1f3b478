package service

import (
	"testing"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/detector"
	"github.com/melvsalonga/affiliate-hub-sub000/internal/shortener"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinkServiceUsesProvidedShortener(t *testing.T) {
	exists := func(code string) (bool, error) { return false, nil }
	short := shortener.New(exists, shortener.WithCodeLength(4))

	svc := NewLinkService(detector.New(), nil, nil, short, "http://go.local")

	code, err := svc.shortener.GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 4)
}

func TestUpdateCommissionRateRejectsNegative(t *testing.T) {
	svc := NewLinkService(detector.New(), nil, nil, shortener.New(nil), "http://go.local")

	err := svc.UpdateCommissionRate(1, -0.05)
	assert.ErrorContains(t, err, "must not be negative")
}
