package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-reader/lumen/internal/core/domain"
)

// fakeConfigStore implements driven.ConfigStore in memory.
type fakeConfigStore struct {
	values map[string]any
	setErr error
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{values: make(map[string]any)}
}

func (s *fakeConfigStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeConfigStore) GetString(key string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

func (s *fakeConfigStore) GetBool(key string) bool {
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return false
}

func (s *fakeConfigStore) Set(key string, value any) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *fakeConfigStore) Save() error { return nil }
func (s *fakeConfigStore) Load() error { return nil }
func (s *fakeConfigStore) Path() string {
	return "/tmp/lumen-test/config.toml"
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, svc.GetDefaults(), *settings)
	assert.Equal(t, domain.HighlightYellow, settings.DefaultHighlightColor)
	assert.False(t, settings.Verbose)
}

func TestSettingsService_Get_StoredValuesWin(t *testing.T) {
	config := newFakeConfigStore()
	config.values[configKeyBooksDir] = "/media/books"
	config.values[configKeyHighlightColor] = "blue"
	config.values[configKeyVerbose] = true

	svc := NewSettingsService(config)
	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "/media/books", settings.BooksDir)
	assert.Equal(t, domain.HighlightBlue, settings.DefaultHighlightColor)
	assert.True(t, settings.Verbose)
}

func TestSettingsService_Get_InvalidColor(t *testing.T) {
	config := newFakeConfigStore()
	config.values[configKeyHighlightColor] = "chartreuse"

	svc := NewSettingsService(config)
	_, err := svc.Get()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	config := newFakeConfigStore()
	svc := NewSettingsService(config)

	in := domain.DefaultSettings()
	in.BooksDir = "/media/books"
	in.DefaultHighlightColor = domain.HighlightGreen
	in.Verbose = true
	require.NoError(t, svc.Save(&in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestSettingsService_Save_InvalidSettings(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	bad := domain.DefaultSettings()
	bad.DefaultHighlightColor = domain.HighlightColor("mauve")
	require.Error(t, svc.Save(&bad))
}

func TestSettingsService_SetDefaultHighlightColor(t *testing.T) {
	config := newFakeConfigStore()
	svc := NewSettingsService(config)

	require.NoError(t, svc.SetDefaultHighlightColor(domain.HighlightPink))
	assert.Equal(t, "pink", config.GetString(configKeyHighlightColor))

	err := svc.SetDefaultHighlightColor(domain.HighlightColor("mauve"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
