package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGo writes a shell script standing in for the go command. It prints
// script's events and exits with code.
func fakeGo(t *testing.T, events string, code string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake go command needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "go")
	script := "#!/bin/sh\n" +
		"echo \"args: $*\" >&2\n" +
		"cat <<'EVENTS'\n" + events + "EVENTS\n" +
		"exit " + code + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

const passingEvents = `{"Action":"run","Package":"example.com/stack","Test":"TestPush"}
{"Action":"pass","Package":"example.com/stack","Test":"TestPush","Elapsed":0.01}
{"Action":"output","Package":"example.com/stack","Output":"ok  \texample.com/stack\t0.02s\n"}
{"Action":"pass","Package":"example.com/stack","Elapsed":0.02}
`

const failingEvents = `{"Action":"run","Package":"example.com/stack","Test":"TestPop"}
{"Action":"fail","Package":"example.com/stack","Test":"TestPop","Elapsed":0.01}
{"Action":"fail","Package":"example.com/stack","Elapsed":0.02}
`

func TestGoTest(t *testing.T) {
	goCmd := fakeGo(t, passingEvents, "0")

	var out, stderr, journal bytes.Buffer
	host := NewHost(&out, nil, Options{}, nil, nil)

	result, err := GoTest(context.Background(), host, goCmd, []string{"./...", "-count=1"}, &stderr, &journal)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TestsRun)
	assert.True(t, result.WasSuccessful())
	assert.Equal(t, "args: test -json ./... -count=1\n", stderr.String())
	assert.Equal(t, passingEvents, journal.String())
	assert.Contains(t, out.String(), "ok  \texample.com/stack\t0.02s")
}

func TestGoTestFailingTestsAreNotAnError(t *testing.T) {
	goCmd := fakeGo(t, failingEvents, "1")

	host := NewHost(&bytes.Buffer{}, nil, Options{}, nil, nil)
	result, err := GoTest(context.Background(), host, goCmd, nil, &bytes.Buffer{}, nil)
	require.NoError(t, err)

	assert.False(t, result.WasSuccessful())
	assert.Len(t, result.Failures, 1)
}

func TestGoTestMissingCommand(t *testing.T) {
	host := NewHost(&bytes.Buffer{}, nil, Options{}, nil, nil)

	_, err := GoTest(context.Background(), host, filepath.Join(t.TempDir(), "no-such-go"), nil, nil, nil)
	assert.ErrorContains(t, err, "failed to start")
}
