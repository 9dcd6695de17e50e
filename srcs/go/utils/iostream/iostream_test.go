package iostream

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tee(t *testing.T) {
	var a, b bytes.Buffer
	r := strings.NewReader("Hello from a processor 0 of 2\nno trailing newline")
	require.NoError(t, Tee(r, &a, &b))
	want := "Hello from a processor 0 of 2\nno trailing newline\n"
	assert.Equal(t, want, a.String())
	assert.Equal(t, want, b.String())
}

func Test_Stream(t *testing.T) {
	var out, errOut bytes.Buffer
	rs := StdReaders{
		Stdout: strings.NewReader("PASSED\n"),
		Stderr: strings.NewReader("MPI error calling \"Scatter\"\n"),
	}
	rs.Stream(&StdWriters{Stdout: &out, Stderr: &errOut}).Wait()
	assert.Equal(t, "PASSED\n", out.String())
	assert.Equal(t, "MPI error calling \"Scatter\"\n", errOut.String())
}

func Test_LazyFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sub", "127.0.0.1.10000")
	w := NewFileRedirector(name)
	_, err := os.Stat(name + ".stdout.log")
	assert.True(t, os.IsNotExist(err), "file must not exist before first write")

	_, err = w.Stdout.Write([]byte("output\n"))
	require.NoError(t, err)
	bs, err := os.ReadFile(name + ".stdout.log")
	require.NoError(t, err)
	assert.Equal(t, "output\n", string(bs))
}
