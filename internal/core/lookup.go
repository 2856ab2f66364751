package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/toasty/internal/model"
)

// LookupByID finds a record by its ID. Returns nil if not found.
func LookupByID(records []model.Record, id string) *model.Record {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}

// LookupByIndex finds a record by its 1-based index.
// Returns nil if index is out of bounds.
func LookupByIndex(records []model.Record, index int) *model.Record {
	idx := index - 1
	if idx < 0 || idx >= len(records) {
		return nil
	}
	return &records[idx]
}

// Search finds records whose text contains term, case-insensitively.
func Search(records []model.Record, term string) []model.Record {
	if term == "" {
		return records
	}

	term = strings.ToLower(term)
	var result []model.Record

	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Text), term) {
			result = append(result, r)
		}
	}

	return result
}

// UniqueStyles returns the sorted set of style names used in records.
func UniqueStyles(records []model.Record) []string {
	seen := make(map[string]bool)
	var styles []string

	for _, r := range records {
		if r.Style != "" && !seen[r.Style] {
			seen[r.Style] = true
			styles = append(styles, r.Style)
		}
	}

	sort.Strings(styles)
	return styles
}
