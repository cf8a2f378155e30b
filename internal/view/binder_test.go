package view

import (
	"encoding/json"
	"testing"

	"resume-page/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name                      string
		country, city, postalCode string
		want                      string
	}{
		{"no postal code", "Cambodia", "Phnom Penh", "", "Cambodia, Phnom Penh"},
		{"all parts", "Cambodia", "Phnom Penh", "12000", "Cambodia, Phnom Penh, 12000"},
		{"only postal code", "", "", "12000", "12000"},
		{"missing city", "Cambodia", "", "12000", "Cambodia, 12000"},
		{"all empty", "", "", "", ""},
		{"city with comma kept verbatim", "Cambodia", "Kandal Province, Krong Tah Khmau", "", "Cambodia, Kandal Province, Krong Tah Khmau"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAddress(tt.country, tt.city, tt.postalCode))
		})
	}
}

func sampleRecord() model.ResumeRecord {
	return model.ResumeRecord{
		FirstName: "Minuth",
		LastName:  "Prom",
		JobTitle:  "Software Engineer",
		City:      "Phnom Penh",
		Country:   "Cambodia",
		Email:     "someone@example.com",
		Skills:    []string{"Go", "PostgreSQL"},
		Links:     []model.LinkEntry{{Label: "GitHub", Link: "https://github.com/minuth"}},
		EmploymentHistory: []model.EmploymentEntry{{
			JobTitle: "Engineer",
			Employer: "PiPay",
			Achievements: []model.AchievementEntry{
				{ProjectName: "Portal", Description: "d", Responsibility: "r"},
			},
		}},
	}
}

func TestBind_CopiesRecordAndAddsAddress(t *testing.T) {
	r := sampleRecord()
	before := sampleRecord()

	vm := Bind(r)

	assert.Equal(t, "Cambodia, Phnom Penh", vm.Address)
	assert.Equal(t, r, vm.ResumeRecord)
	assert.Equal(t, before, r, "binding must not mutate the input")
	assert.Equal(t, "Minuth Prom", vm.FullName())
}

func TestBind_EmptyAddress(t *testing.T) {
	vm := Bind(model.ResumeRecord{FirstName: "A"})
	assert.Equal(t, "", vm.Address)
}

func TestBind_JSONIsSupersetOfRecord(t *testing.T) {
	r := sampleRecord()

	rawRecord, err := json.Marshal(r)
	require.NoError(t, err)
	rawView, err := json.Marshal(Bind(r))
	require.NoError(t, err)

	var rec, vm map[string]interface{}
	require.NoError(t, json.Unmarshal(rawRecord, &rec))
	require.NoError(t, json.Unmarshal(rawView, &vm))

	for k, v := range rec {
		assert.Equal(t, v, vm[k], "field %q changed", k)
	}
	assert.Equal(t, "Cambodia, Phnom Penh", vm["address"])
	assert.Len(t, vm, len(rec)+1)
}
