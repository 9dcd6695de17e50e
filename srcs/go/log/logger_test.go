package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Logger_level(t *testing.T) {
	b := &bytes.Buffer{}
	l := New()
	l.SetOutput(b)
	l.SetLevel(Warn)
	l.Infof("hidden")
	l.Warnf("shown %d", 1)
	assert.Equal(t, "[W] shown 1\n", b.String())
}

func Test_ParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Error, ParseLevel("ERROR"))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func Test_fmtDuration(t *testing.T) {
	d := 26*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond
	assert.Equal(t, "1d 02:03:04   5.00ms", fmtDuration(d))
}
