package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/listview/internal/model"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []TokenType
	}{
		{"task", []TokenType{TokenText, TokenEOF}},
		{"task project", []TokenType{TokenText, TokenText, TokenEOF}},
		{"task | project", []TokenType{TokenText, TokenOr, TokenText, TokenEOF}},
		{"task +project", []TokenType{TokenText, TokenAnd, TokenText, TokenEOF}},
		{"-task", []TokenType{TokenNot, TokenText, TokenEOF}},
		{"c:>-7d @status=done", []TokenType{TokenFilter, TokenFilter, TokenEOF}},
		{"(task | project)", []TokenType{TokenLParen, TokenText, TokenOr, TokenText, TokenRParen, TokenEOF}},
		{`"multi word"`, []TokenType{TokenText, TokenEOF}},
		{"~fzy #home is:node", []TokenType{TokenFilter, TokenFilter, TokenFilter, TokenEOF}},
		{"/^a.b$/ well-known", []TokenType{TokenRegex, TokenText, TokenEOF}},
		{"note:later", []TokenType{TokenText, TokenEOF}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got []TokenType
			for _, tok := range NewTokenizer(tt.input).AllTokens() {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tt.tokens, got)
		})
	}
}

func TestParseQueryMatches(t *testing.T) {
	old := time.Now().AddDate(0, 0, -30)
	items := map[string]*model.Item{
		"task":  {ID: "1", Text: "Write the task list", Metadata: &model.Metadata{Tags: []string{"work"}, Attributes: map[string]string{"status": "done"}, Created: old}},
		"proj":  {ID: "2", Text: "Project plan", Node: true, Metadata: &model.Metadata{Attributes: map[string]string{"status": "open", "due": "2024-05-01"}, Created: time.Now()}},
		"plain": {ID: "3", Text: "groceries"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"task", "proj", "plain"}},
		{"task", []string{"task"}},
		{"TASK | groceries", []string{"task", "plain"}},
		{"-task", []string{"proj", "plain"}},
		{"plan project", []string{"proj"}},
		{`"task list"`, []string{"task"}},
		{"~grcrs", []string{"plain"}},
		{"#work", []string{"task"}},
		{"@status", []string{"task", "proj"}},
		{"@status=open", []string{"proj"}},
		{"@status!=open", []string{"task", "plain"}},
		{"@due<2024-06-01", []string{"proj"}},
		{"is:node", []string{"proj"}},
		{"is:leaf -#work", []string{"plain"}},
		{"c:<-7d", []string{"task"}},
		{"created:>7d", []string{"proj"}},
		{"/^Pro/", []string{"proj"}},
		{"(task | plan) + -is:node", []string{"task"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := ParseQuery(tt.query)
			require.NoError(t, err)
			var got []string
			for _, name := range []string{"task", "proj", "plain"} {
				if expr.Matches(items[name]) {
					got = append(got, name)
				}
			}
			assert.Equal(t, tt.want, got, "expr %s", expr)
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, q := range []string{"(task", "task)", "/[/", "is:folder", "c:yesterday", "@=x", "~", "#", "|"} {
		t.Run(q, func(t *testing.T) {
			_, err := ParseQuery(q)
			assert.Error(t, err)
		})
	}
}
