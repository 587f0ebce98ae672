package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoforge/repoctl/internal/cmd"
)

func TestListCmd(t *testing.T) {
	index := "Package: com.example.foo\r\nVersion: 1.0\r\nArchitecture: iphoneos-arm\r\nIcon: icons/com.example.foo.png\r\n\r\n" +
		"Package: com.example.bar\r\nVersion: 2.0\r\nArchitecture: iphoneos-arm\r\n"
	setupRepo(t, index, nil)

	t.Run("text output", func(t *testing.T) {
		cmdObj, err := NewListCmd(&cmd.BaseCmd{})
		require.NoError(t, err)

		buf := new(bytes.Buffer)
		cmdObj.SetOut(buf)
		cmdObj.SetArgs([]string{})
		require.NoError(t, cmdObj.Execute())

		assert.Contains(t, buf.String(), "com.example.foo 1.0 (iphoneos-arm) icon=icons/com.example.foo.png\n")
		assert.Contains(t, buf.String(), "com.example.bar 2.0 (iphoneos-arm)\n")
	})

	t.Run("json output", func(t *testing.T) {
		cmdObj, err := NewListCmd(&cmd.BaseCmd{})
		require.NoError(t, err)

		buf := new(bytes.Buffer)
		cmdObj.SetOut(buf)
		cmdObj.SetArgs([]string{"--format", "json"})
		require.NoError(t, cmdObj.Execute())

		assert.Contains(t, buf.String(), `"package": "com.example.foo"`)
		assert.Contains(t, buf.String(), `"results"`)
	})

	t.Run("unsupported format", func(t *testing.T) {
		cmdObj, err := NewListCmd(&cmd.BaseCmd{})
		require.NoError(t, err)

		cmdObj.SetOut(new(bytes.Buffer))
		cmdObj.SetErr(new(bytes.Buffer))
		cmdObj.SetArgs([]string{"--format", "xml"})
		err = cmdObj.Execute()
		require.Error(t, err)
		require.ErrorContains(t, err, "unsupported format")
	})
}

func TestListCmd_EmptyIndex(t *testing.T) {
	setupRepo(t, "", nil)

	cmdObj, err := NewListCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{})
	require.NoError(t, cmdObj.Execute())

	assert.Equal(t, "No items found\n", buf.String())
}
