package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-docgate/internal/mcp"
)

func TestRegistryAdvertisesAllTools(t *testing.T) {
	reg, err := mcp.NewRegistry(false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"list_spaces", "list_pages", "get_page", "search_pages", "create_page", "update_page",
	}, reg.Names())
	assert.False(t, reg.ReadOnly())

	for _, tool := range reg.Tools() {
		assert.NotEmpty(t, tool.Description, tool.Name)
		require.NotNil(t, tool.InputSchema, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)
	}
}

func TestRegistryReadOnlyHidesMutatingTools(t *testing.T) {
	reg, err := mcp.NewRegistry(true)
	require.NoError(t, err)

	assert.Equal(t, []string{"list_spaces", "list_pages", "get_page", "search_pages"}, reg.Names())
	assert.True(t, reg.ReadOnly())

	// still known to the catalog, just not advertised
	def, ok := catalogEntry(t, "create_page")
	require.True(t, ok)
	assert.True(t, def.Mutating)
}

func TestRegistryToolsReturnsCopy(t *testing.T) {
	reg, err := mcp.NewRegistry(false)
	require.NoError(t, err)

	tools := reg.Tools()
	tools[0].Name = "mutated"
	assert.Equal(t, "list_spaces", reg.Tools()[0].Name)
}

func catalogEntry(t *testing.T, name string) (mcp.ToolDef, bool) {
	t.Helper()
	defs, err := mcp.LoadToolDefs()
	require.NoError(t, err)
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return mcp.ToolDef{}, false
}

func TestCatalogSchemasDeclareRequiredParams(t *testing.T) {
	want := map[string][]string{
		"list_spaces":  nil,
		"list_pages":   {"spaceId"},
		"get_page":     {"pageId"},
		"search_pages": {"query"},
		"create_page":  {"title", "content", "spaceId"},
		"update_page":  {"pageId"},
	}
	for name, required := range want {
		def, ok := catalogEntry(t, name)
		require.True(t, ok, name)
		assert.ElementsMatch(t, required, def.InputSchema.Required, name)
		for _, p := range required {
			assert.Contains(t, def.InputSchema.Properties, p, name)
		}
	}
}

// The catalog and the dispatch table must describe the same tools with the
// same mutating flag.
func TestCatalogMatchesDispatchTable(t *testing.T) {
	defs, err := mcp.LoadToolDefs()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	table := mcp.NewDispatcher(&fakeBackend{}, false, nil).Tools()
	require.Len(t, table, len(defs))

	for _, d := range defs {
		mutating, ok := table[d.Name]
		if !assert.True(t, ok, "tool %q is in mcp-tools.json but has no dispatch handler", d.Name) {
			continue
		}
		assert.Equal(t, d.Mutating, mutating, d.Name)
	}
}
