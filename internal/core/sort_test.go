package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
)

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		opts SortOptions
		want []string
	}{
		{name: "default newest first", opts: DefaultSortOptions(), want: []string{"1", "2", "3"}},
		{name: "timestamp asc", opts: SortOptions{Field: SortByTimestamp, Order: SortAsc}, want: []string{"3", "2", "1"}},
		{name: "text asc", opts: SortOptions{Field: SortByText, Order: SortAsc}, want: []string{"1", "3", "2"}},
		{name: "delay desc", opts: SortOptions{Field: SortByDelay, Order: SortDesc}, want: []string{"3", "2", "1"}},
		{name: "duration desc keeps ties stable", opts: SortOptions{Field: SortByDuration, Order: SortDesc}, want: []string{"2", "1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := sampleRecords()
			Sort(records, tt.opts)
			assert.Equal(t, tt.want, ids(records))
		})
	}

	var empty []model.Record
	Sort(empty, DefaultSortOptions())
	assert.Empty(t, empty)
}

func TestParseSortField(t *testing.T) {
	for input, want := range map[string]SortField{
		"":         SortByTimestamp,
		"time":     SortByTimestamp,
		"TEXT":     SortByText,
		"duration": SortByDuration,
		" delay ":  SortByDelay,
	} {
		got, err := ParseSortField(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseSortField("urgency")
	assert.Error(t, err)
}

func TestParseSortOrder(t *testing.T) {
	got, err := ParseSortOrder("asc")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, got)

	got, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, got)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}
