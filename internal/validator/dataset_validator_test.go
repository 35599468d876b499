package validator

import (
	"testing"

	"github.com/yourorg/atlas-directory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDataset() *model.Dataset {
	rating := 4.6
	return &model.Dataset{
		Categories: []model.Category{
			{ID: "platforms", Name: "Platforms"},
			{ID: "infra", Name: "Infrastructure"},
		},
		Resources: []model.Resource{
			{ID: "a", Name: "Atlas One", Stage: model.StageResearch, CategoryID: "platforms", URL: "https://atlas.example"},
			{ID: "b", Name: "Basil", Stage: model.StageGrowth, CategoryID: "infra", Metrics: &model.Metrics{Rating: &rating}},
		},
	}
}

func TestValidateDataset_Valid(t *testing.T) {
	report, err := NewDatasetValidator().ValidateDataset(validDataset())
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
}

func TestValidateDataset_UnknownCategoryIsWarning(t *testing.T) {
	ds := validDataset()
	ds.Resources[1].CategoryID = "ghost"

	report, err := NewDatasetValidator().ValidateDataset(ds)
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], `"ghost"`)
}

func TestValidateDataset_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ds *model.Dataset)
		want   string
	}{
		{"missing name", func(ds *model.Dataset) { ds.Resources[0].Name = "" }, "Name is required"},
		{"bad stage", func(ds *model.Dataset) { ds.Resources[0].Stage = "Seed" }, "must be one of"},
		{"bad url", func(ds *model.Dataset) { ds.Resources[0].URL = "not a url" }, "valid URL"},
		{"rating above five", func(ds *model.Dataset) {
			r := 7.5
			ds.Resources[1].Metrics.Rating = &r
		}, "max=5"},
		{"negative users", func(ds *model.Dataset) {
			u := int64(-3)
			ds.Resources[1].Metrics.Users = &u
		}, "min=0"},
		{"duplicate resource", func(ds *model.Dataset) { ds.Resources[1].ID = "a" }, `duplicate resource id "a"`},
		{"duplicate category", func(ds *model.Dataset) { ds.Categories[1].ID = "platforms" }, `duplicate category id "platforms"`},
		{"category without name", func(ds *model.Dataset) { ds.Categories[0].Name = "" }, "Name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := validDataset()
			tt.mutate(ds)

			_, err := NewDatasetValidator().ValidateDataset(ds)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.want)
		})
	}
}

func TestValidateDataset_Nil(t *testing.T) {
	_, err := NewDatasetValidator().ValidateDataset(nil)
	assert.Error(t, err)
}
