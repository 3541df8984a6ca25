// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmasanja/elimu/pkg/slug"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Form Four Results Released", "form-four-results-released"},
		{"punctuation", "Breaking: NECTA announces 2026 timetable!", "breaking-necta-announces-2026-timetable"},
		{"accents stripped", "Café Über Résumé", "cafe-uber-resume"},
		{"swahili title", "Matokeo ya Darasa la Saba", "matokeo-ya-darasa-la-saba"},
		{"consecutive separators", "a  --  b", "a-b"},
		{"leading and trailing noise", "  ...hello world?  ", "hello-world"},
		{"already slugged", "already-a-slug", "already-a-slug"},
		{"empty", "", ""},
		{"only symbols", "!!!???", ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, slug.From(testCase.input))
		})
	}
}
