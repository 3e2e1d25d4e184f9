package etl

import (
	"testing"
	"time"

	"pricefeed/internal/pricenow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func def(id int64, age, duration string) pricenow.ProductDefinition {
	d := pricenow.ProductDefinition{ID: &id}
	d.Attributes.Age = pricenow.Attribute{Value: age}
	d.Attributes.Duration = pricenow.Attribute{Value: duration}
	return d
}

func TestBuildCatalog(t *testing.T) {
	now := time.Now().UTC()
	resp := &pricenow.CatalogResponse{
		Data: []pricenow.CatalogProduct{
			{
				Name: "skitickets",
				ProductDefinitions: []pricenow.ProductDefinition{
					def(11, "adult", "1d"),
					def(12, "small_child", "4h"),
					def(13, "child", "13d"),
				},
			},
			{
				Name: "wintercard",
				ProductDefinitions: []pricenow.ProductDefinition{
					def(21, "adult", "4h"),
				},
			},
		},
	}

	catalog, err := buildCatalog(resp, now)
	require.NoError(t, err)

	// small_child is never materialized
	require.Len(t, catalog.Products, 3)
	assert.Equal(t, []int64{11, 13, 21}, catalog.IDs)

	assert.Equal(t, "skitickets", catalog.Products[0].Category)
	assert.Equal(t, "wintercard", catalog.Products[2].Category)
	assert.Equal(t, "13d", catalog.Products[1].Duration)

	// durations resolved to days, including the excluded small_child id
	assert.Equal(t, map[int64]int{11: 1, 12: 1, 13: 13, 21: 1}, catalog.Durations)
}

func TestBuildCatalogNullIDFails(t *testing.T) {
	now := time.Now().UTC()
	broken := pricenow.ProductDefinition{}
	broken.Attributes.Age = pricenow.Attribute{Value: "adult"}
	broken.Attributes.Duration = pricenow.Attribute{Value: "1d"}

	resp := &pricenow.CatalogResponse{
		Data: []pricenow.CatalogProduct{
			{Name: "skitickets", ProductDefinitions: []pricenow.ProductDefinition{broken}},
		},
	}

	_, err := buildCatalog(resp, now)

	var intErr *IntegrityError
	require.ErrorAs(t, err, &intErr)
	assert.Equal(t, "pricenow_products", intErr.Table)
	assert.Len(t, intErr.Rows, 1)
}

func TestParseDurationCode(t *testing.T) {
	tests := []struct {
		code    string
		want    int
		wantErr bool
	}{
		{"4h", 1, false},
		{"1d", 1, false},
		{"2d", 2, false},
		{"13d", 13, false},
		{"", 0, true},
		{"weekly", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := parseDurationCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
