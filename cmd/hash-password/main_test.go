package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()

	hasher := auth.NewBcrypt(4)
	var out bytes.Buffer

	require.NoError(t, run(&out, hasher, []string{"correct-horse", "battery-staple"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	for i, want := range []string{"correct-horse", "battery-staple"} {
		password, hash, ok := strings.Cut(lines[i], "\t")
		require.True(t, ok)
		assert.Equal(t, want, password)
		assert.NoError(t, hasher.Compare(hash, password))
	}
}

func TestRun_RejectsShortPasswords(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := run(&out, auth.NewBcrypt(4), []string{"short", "long-enough"})

	assert.EqualError(t, err, "1 password(s) rejected")
	assert.Contains(t, out.String(), `# skipped "short"`)
	assert.Contains(t, out.String(), "long-enough\t$2a$04$")
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	lines, err := readLines(strings.NewReader("first-pass\n\n  second-pass  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first-pass", "second-pass"}, lines)
}
