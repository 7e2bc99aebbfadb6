package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasLimitClause(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"no limit", "SELECT * FROM topic WHERE tid = $tid", false},
		{"upper case limit", "SELECT * FROM topic LIMIT 5", true},
		{"lower case limit", "select * from topic limit 5", true},
		{"limit-like identifier", "SELECT * FROM rate_limits", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasLimitClause(tt.query))
		})
	}
}
