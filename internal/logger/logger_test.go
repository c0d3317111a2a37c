package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	testCases := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "InfoByDefault", debug: false, wantDebug: false},
		{name: "DebugEnabled", debug: true, wantDebug: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			log := New(&buf, tc.debug)
			log.Debug().Msg("walking")
			log.Info().Str("path", "a.py").Msg("written")

			out := buf.String()
			assert.Contains(t, out, "written")
			assert.Contains(t, out, "path=a.py")
			assert.Equal(t, tc.wantDebug, bytes.Contains(buf.Bytes(), []byte("walking")))
		})
	}
}
