package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LibraryPaths(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"explicit path wins", Config{PythonLibPath: "/opt/py/libpython3.12.so", LibraryCandidates: []string{"libpython3.so"}}, []string{"/opt/py/libpython3.12.so"}},
		{"candidates", Config{LibraryCandidates: []string{"libpython3.so", "libpython3.11.so.1.0"}}, []string{"libpython3.so", "libpython3.11.so.1.0"}},
		{"nothing", Config{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.libraryPaths())
		})
	}
}

func TestOpenFirst_AllFail(t *testing.T) {
	_, _, err := openFirst([]string{"/nonexistent/libpython-a.so", "/nonexistent/libpython-b.so"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libpython-a.so")
	assert.Contains(t, err.Error(), "libpython-b.so")

	_, _, err = openFirst(nil)
	assert.Error(t, err)
}

func TestSameConfig(t *testing.T) {
	base := Config{LibraryCandidates: []string{"libpython3.so"}, PythonPath: []string{"/venv/site-packages"}}

	assert.True(t, sameConfig(base, Config{LibraryCandidates: []string{"libpython3.so"}, PythonPath: []string{"/venv/site-packages"}}))
	assert.False(t, sameConfig(base, Config{LibraryCandidates: []string{"libpython3.so"}}))
	assert.False(t, sameConfig(base, Config{PythonLibPath: "libpython3.11.so", PythonPath: []string{"/venv/site-packages"}}))
	assert.False(t, sameConfig(base, Config{LibraryCandidates: []string{"libpython3.so"}, PythonPath: []string{"/other"}}))
}

func TestException_Error(t *testing.T) {
	assert.Equal(t, "RuntimeError: boom", (&Exception{Type: "RuntimeError", Message: "boom"}).Error())
	assert.Equal(t, "StopIteration", (&Exception{Type: "StopIteration"}).Error())
}
