package root_test

import (
	"testing"

	"fjacquet/bilanci/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bilanci", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "financial figures")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "input", shorthand: "i"},
		{name: "output", shorthand: "o"},
		{name: "format", shorthand: "f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Empty(t, flag.DefValue)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestRootCommand_PreRunBuildsContainer(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BILANCI_DATA_DIRECTORY", t.TempDir())

	require.NoError(t, root.Cmd.PersistentPreRunE(&cobra.Command{}, nil))
	require.NotNil(t, root.GetContainer())
	assert.NotNil(t, root.GetLogger())

	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(&cobra.Command{}, nil)
	})
}

func TestRootCommand_PreRunRejectsInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BILANCI_LOG_FORMAT", "xml")

	err := root.Cmd.PersistentPreRunE(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
