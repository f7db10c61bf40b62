package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPaths = []string{
	"main.go",
	"cmd/app/main.go",
	"internal/util/helper.go",
	"internal/util/helper_test.go",
	"docs/README.md",
	"assets/logo.png",
}

func TestFuzzyMatcher(t *testing.T) {
	assert := assert.New(t)

	m, err := ParsePattern("helper")
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Contains(got, "internal/util/helper.go")
	assert.Contains(got, "internal/util/helper_test.go")
	assert.NotContains(got, "docs/README.md")
}

func TestFuzzyMatcherEmptyPatternMatchesAll(t *testing.T) {
	got, err := FuzzyMatcher{}.Match(testPaths)
	require.NoError(t, err)
	assert.Equal(t, testPaths, got)
}

func TestRegexMatcher(t *testing.T) {
	assert := assert.New(t)

	m, err := ParsePattern(`/\.go$`)
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Equal([]string{
		"main.go",
		"cmd/app/main.go",
		"internal/util/helper.go",
		"internal/util/helper_test.go",
	}, got)

	_, err = ParsePattern("/[unclosed")
	assert.Error(err)
}

func TestGlobMatcher(t *testing.T) {
	assert := assert.New(t)

	m, err := ParsePattern("internal/**/*.go")
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Equal([]string{
		"internal/util/helper.go",
		"internal/util/helper_test.go",
	}, got)
}

func TestExactMatcher(t *testing.T) {
	assert := assert.New(t)

	m, err := ParsePattern("=docs/README.md")
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Equal([]string{"docs/README.md"}, got)

	got, err = m.Match([]string{"main.go"})
	require.NoError(t, err)
	assert.Empty(got)
}

func TestNegation(t *testing.T) {
	assert := assert.New(t)

	m, err := ParsePattern(`/\.go$|!_test`)
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Equal([]string{
		"main.go",
		"cmd/app/main.go",
		"internal/util/helper.go",
	}, got)
}

func TestCompoundNarrows(t *testing.T) {
	assert := assert.New(t)

	m, err := ParsePattern("main|/^cmd/")
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Equal([]string{"cmd/app/main.go"}, got)
}

func TestDotSlashStripped(t *testing.T) {
	m, err := ParsePattern("=./main.go")
	require.NoError(t, err)
	got, err := m.Match(testPaths)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, got)
}

func TestParentTraversalRejected(t *testing.T) {
	_, err := ParsePattern("../secrets")
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	assert := assert.New(t)

	t.Run("NoPatternsReturnsAll", func(t *testing.T) {
		got, err := Select(testPaths, nil)
		require.NoError(t, err)
		assert.Equal(testPaths, got)
	})

	t.Run("UnionPreservesInputOrder", func(t *testing.T) {
		got, err := Select(testPaths, []string{"=docs/README.md", "=main.go"})
		require.NoError(t, err)
		assert.Equal([]string{"main.go", "docs/README.md"}, got)
	})

	t.Run("BadPatternSurfacesError", func(t *testing.T) {
		_, err := Select(testPaths, []string{"/[unclosed"})
		assert.Error(err)
	})
}
