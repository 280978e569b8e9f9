package commands

import (
	"context"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/app"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c stubCmd) Name() string                   { return c.name }
func (c stubCmd) Aliases() []string              { return c.aliases }
func (c stubCmd) Synopsis() string               { return "" }
func (c stubCmd) Usage() string                  { return "" }
func (c stubCmd) NeedsAuth() bool                { return false }
func (c stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (c stubCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistry_RegisterAndFind(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubCmd{name: "tasks", aliases: []string{"list"}}))

	cmd, ok := r.Find("list")
	require.True(t, ok)
	assert.Equal(t, "tasks", cmd.Name())

	_, ok = r.Find("task")
	assert.False(t, ok)
}

func TestRegistry_ClashLeavesRegistryUnchanged(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubCmd{name: "rm"}))

	err := r.Register(stubCmd{name: "remove", aliases: []string{"rm"}})
	assert.EqualError(t, err, "command name already registered: rm")

	_, ok := r.Find("remove")
	assert.False(t, ok)
}

func TestRegistry_AllSortedOnce(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubCmd{name: "tasks", aliases: []string{"list"}}))
	require.NoError(t, r.Register(stubCmd{name: "add", aliases: []string{"create"}}))

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"add", "tasks"}, names)
}

func TestRegistry_Suggest(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubCmd{name: "projects", aliases: []string{"ls"}}))
	require.NoError(t, r.Register(stubCmd{name: "project"}))
	require.NoError(t, r.Register(stubCmd{name: "rm"}))

	assert.Equal(t, []string{"project", "projects"}, r.Suggest("pro"))
	assert.Equal(t, []string{"projects"}, r.Suggest("l"))
	assert.Equal(t, []string{"rm"}, r.Suggest("rmx"))
	assert.Empty(t, r.Suggest("zzz"))
	assert.Empty(t, r.Suggest(""))
}

func TestDefaultRegistry_NoClashes(t *testing.T) {
	// init would have panicked; check every command is reachable by name.
	for _, c := range DefaultRegistry.All() {
		found, ok := DefaultRegistry.Find(c.Name())
		require.True(t, ok)
		assert.Same(t, c, found)
	}
}
