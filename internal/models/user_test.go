package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushRecentSearchedCity(t *testing.T) {
	t.Run("Prepends", func(t *testing.T) {
		u := &User{RecentSearchedCities: StringArray{"Paris", "Rome"}}
		u.PushRecentSearchedCity("Tokyo")
		assert.Equal(t, StringArray{"Tokyo", "Paris", "Rome"}, u.RecentSearchedCities)
	})

	t.Run("Deduplicates Case Insensitively", func(t *testing.T) {
		u := &User{RecentSearchedCities: StringArray{"Paris", "Rome"}}
		u.PushRecentSearchedCity("paris")
		assert.Equal(t, StringArray{"paris", "Rome"}, u.RecentSearchedCities)
	})

	t.Run("Caps History", func(t *testing.T) {
		u := &User{RecentSearchedCities: StringArray{"a", "b", "c", "d", "e"}}
		u.PushRecentSearchedCity("f")
		assert.Len(t, u.RecentSearchedCities, MaxRecentSearchedCities)
		assert.Equal(t, "f", u.RecentSearchedCities[0])
		assert.NotContains(t, u.RecentSearchedCities, "e")
	})
}

func TestRegisterRequestValidate(t *testing.T) {
	t.Run("Defaults Role", func(t *testing.T) {
		req := RegisterRequest{Username: "jo", Email: "Jo@Example.com", Password: "secret1"}
		assert.NoError(t, req.Validate())
		assert.Equal(t, RoleUser, req.Role)
		assert.Equal(t, "jo@example.com", req.Email)
	})

	t.Run("Rejects Unknown Role", func(t *testing.T) {
		req := RegisterRequest{Username: "jo", Email: "jo@example.com", Password: "secret1", Role: "admin"}
		assert.Error(t, req.Validate())
	})
}
