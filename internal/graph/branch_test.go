package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBranchName(t *testing.T) {
	cases := []struct {
		desc string
		want string
	}{
		{"Fix the login bug", "fix_the_login_bug"},
		{"A very long commit description that exceeds twenty chars", "a_very_long_commit_d"},
		{"Has: colons. and-dashes", "has_colons_anddashes"},
		{"multi\nline\ndescription", "multi"},
	}
	for _, tc := range cases {
		got := BranchName(tc.desc, false)
		assert.Equal(t, tc.want, got)
		assert.LessOrEqual(t, len(got), maxBranchNameLen)
	}
}

func TestBranchNameRandomized(t *testing.T) {
	a := BranchName("Fix the login bug", true)
	b := BranchName("Fix the login bug", true)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "fix_the_login_bug_"))
}

func TestOneliner(t *testing.T) {
	assert.Equal(t, "short", Oneliner("short\nmore detail here"))
	long := strings.Repeat("x", 50)
	assert.Equal(t, long[:40], Oneliner(long))
}
