package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/yourorg/atlas-directory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliDataset = `
categories:
  - id: platforms
    name: Platforms
  - id: infra
    name: Infrastructure
resources:
  - id: a
    name: Atlas
    region: Lagos
    categoryId: platforms
    stage: Growth
    tags: [infra, agents]
  - id: b
    name: basil
    region: Berlin
    categoryId: infra
    stage: Research
    tags: [infra]
  - id: c
    name: Cedar
    region: Lagos
    categoryId: orphan
    stage: Early
    tags: [agents]
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCommand(t *testing.T) {
	path := writeDataset(t, "resources.yaml", cliDataset)

	t.Run("json output with tags and maturity", func(t *testing.T) {
		out, err := run(t, "query", "--data", path, "--json", "--tag", "infra", "--sort", "maturity")
		require.NoError(t, err)

		var cards []model.Card
		require.NoError(t, json.Unmarshal([]byte(out), &cards))
		require.Len(t, cards, 2)
		assert.Equal(t, "b", cards[0].ID)
		assert.Equal(t, "a", cards[1].ID)
	})

	t.Run("case-insensitive alphabetical", func(t *testing.T) {
		out, err := run(t, "query", "--data", path, "--json")
		require.NoError(t, err)

		var cards []model.Card
		require.NoError(t, json.Unmarshal([]byte(out), &cards))
		require.Len(t, cards, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{cards[0].ID, cards[1].ID, cards[2].ID})
		assert.Equal(t, model.UnmappedCategoryLabel, cards[2].CategoryLabel)
	})

	t.Run("table output", func(t *testing.T) {
		out, err := run(t, "query", "--data", path, "--search", "lagos")
		require.NoError(t, err)
		assert.Contains(t, out, "Atlas")
		assert.Contains(t, out, "Cedar")
		assert.NotContains(t, out, "basil")
		assert.Contains(t, out, "Search: “lagos”")
	})

	t.Run("unfiltered table shows viewing line", func(t *testing.T) {
		out, err := run(t, "query", "--data", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Viewing 3 of 3 builders")
	})

	t.Run("rejects unknown stage", func(t *testing.T) {
		_, err := run(t, "query", "--data", path, "--stage", "Seed")
		assert.Error(t, err)
	})
}

func TestSignalsCommand(t *testing.T) {
	path := writeDataset(t, "resources.yaml", cliDataset)

	out, err := run(t, "signals", "--data", path, "--json")
	require.NoError(t, err)

	var signals model.Signals
	require.NoError(t, json.Unmarshal([]byte(out), &signals))
	assert.Equal(t, 3, signals.Total)
	assert.Equal(t, 2, signals.RegionCount)
	assert.Equal(t, []model.CategoryShare{
		{ID: "platforms", Name: "Platforms", Share: 33},
		{ID: "infra", Name: "Infrastructure", Share: 33},
	}, signals.CategorySpread)
}

func TestTagsCommand(t *testing.T) {
	path := writeDataset(t, "resources.yaml", cliDataset)

	out, err := run(t, "tags", "--data", path, "--json", "--limit", "1")
	require.NoError(t, err)

	var tags []model.TagCount
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.Equal(t, []model.TagCount{{Tag: "infra", Count: 2}}, tags)

	out, err = run(t, "tags", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "#infra")
	assert.Contains(t, out, "#agents")
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid with warnings", func(t *testing.T) {
		path := writeDataset(t, "resources.yaml", cliDataset)
		out, err := run(t, "validate", "--data", path)
		require.NoError(t, err)
		assert.Contains(t, out, "warning:")
		assert.Contains(t, out, "orphan")
		assert.Contains(t, out, "ok (3 resources, 2 categories")
	})

	t.Run("invalid", func(t *testing.T) {
		path := writeDataset(t, "broken.json", `{"categories":[],"resources":[{"id":"x","stage":"Seed"},{"id":"x","name":"Dup"}]}`)
		out, err := run(t, "validate", "--data", path)
		require.Error(t, err)
		assert.Contains(t, out, "error:")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "validate", "--data", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
