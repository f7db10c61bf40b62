package pick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTreeLabels(t *testing.T) {
	assert := assert.New(t)

	entries := []Entry{
		{Path: "./", IsDir: true},
		{Path: "./src", IsDir: true},
		{Path: "./src/a.txt", IsDir: false},
		{Path: "./src/b.txt", IsDir: false},
		{Path: "./docs", IsDir: true},
	}

	labels := BuildTreeLabels(entries, ".")
	assert.Equal([]string{
		"./",
		"├─ src/",
		"│  ├─ a.txt",
		"│  └─ b.txt",
		"└─ docs/",
	}, labels)

	// Deterministic: identical input produces identical labels.
	assert.Equal(labels, BuildTreeLabels(entries, "."))
}

func TestBuildTreeLabelsContinuationGlyphs(t *testing.T) {
	assert := assert.New(t)

	entries := []Entry{
		{Path: ".", IsDir: true},
		{Path: "a", IsDir: true},
		{Path: "a/x.txt", IsDir: false},
		{Path: "a/y", IsDir: true},
		{Path: "a/y/z.txt", IsDir: false},
		{Path: "b.txt", IsDir: false},
	}

	labels := BuildTreeLabels(entries, ".")
	assert.Equal([]string{
		"./",
		"├─ a/",
		"│  ├─ x.txt",
		"│  └─ y/",
		"│     └─ z.txt",
		"└─ b.txt",
	}, labels)
}

func TestBuildTreeLabelsOnlyLastSiblingUsesElbow(t *testing.T) {
	assert := assert.New(t)

	entries := []Entry{
		{Path: ".", IsDir: true},
		{Path: "a.txt", IsDir: false},
		{Path: "b.txt", IsDir: false},
		{Path: "c.txt", IsDir: false},
	}

	labels := BuildTreeLabels(entries, ".")
	assert.Equal([]string{"./", "├─ a.txt", "├─ b.txt", "└─ c.txt"}, labels)
}

func TestBuildTreeLabelsOrphanedParent(t *testing.T) {
	assert := assert.New(t)

	t.Run("AttachesUnderRoot", func(t *testing.T) {
		// "a" is missing from the listing; its child must still render,
		// attached directly under the root.
		entries := []Entry{
			{Path: ".", IsDir: true},
			{Path: "a/b.txt", IsDir: false},
		}
		labels := BuildTreeLabels(entries, ".")
		assert.Equal([]string{"./", "└─ b.txt"}, labels)
	})

	t.Run("JoinsRootSiblingOrder", func(t *testing.T) {
		entries := []Entry{
			{Path: ".", IsDir: true},
			{Path: "a/b.txt", IsDir: false},
			{Path: "c.txt", IsDir: false},
		}
		labels := BuildTreeLabels(entries, ".")
		assert.Equal([]string{"./", "├─ b.txt", "└─ c.txt"}, labels)
	})
}

func TestBuildTreeLabelsDirectorySuffix(t *testing.T) {
	assert := assert.New(t)

	entries := []Entry{
		{Path: ".", IsDir: true},
		{Path: "sub", IsDir: true},
		{Path: "sub/file", IsDir: false},
	}

	labels := BuildTreeLabels(entries, ".")
	assert.Equal("└─ sub/", labels[1], "directories carry a trailing slash")
	assert.Equal("   └─ file", labels[2], "files do not")
}
