package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticcheckAnalyzers(t *testing.T) {
	type tTestCase struct {
		name     string
		enabled  []string
		expected func(t *testing.T, names []string)
	}
	testCases := []tTestCase{
		{
			name:    "explicit list",
			enabled: []string{"SA1000", "SA4006"},
			expected: func(t *testing.T, names []string) {
				assert.ElementsMatch(t, []string{"SA1000", "SA4006"}, names)
			},
		},
		{
			name: "no config enables the SA group",
			expected: func(t *testing.T, names []string) {
				assert.Contains(t, names, "SA1000")
				for _, name := range names {
					assert.Regexp(t, `^SA`, name)
				}
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var names []string
			for _, analyzer := range staticcheckAnalyzers(testCase.enabled) {
				names = append(names, analyzer.Name)
			}
			testCase.expected(t, names)
		})
	}
}
