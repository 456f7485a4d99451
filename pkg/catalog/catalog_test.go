package catalog

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/metrics"
	"github.com/ssargent/hybridrow/pkg/schema"
)

const ordersYAML = `
name: orders
version: v1
schemas:
  - name: Order
    id: 10
    properties:
      - path: id
        type: {type: int64, storage: fixed, nullable: false}
      - path: note
        type: {type: utf8}
`

const ordersJSON = `{
  "name": "orders",
  "version": "v1",
  "schemas": [
    {
      "name": "Order",
      "id": 10,
      "properties": [
        {"path": "id", "type": {"type": "int64", "storage": "fixed", "nullable": false}},
        {"path": "note", "type": {"type": "utf8"}}
      ]
    }
  ]
}`

func openCatalog(t *testing.T, dir string) *Catalog {
	t.Helper()
	c, err := Open(dir, Options{Metrics: metrics.NewMetrics(prometheus.NewRegistry())})
	require.NoError(t, err)
	return c
}

func TestRegisterAndGet(t *testing.T) {
	c := openCatalog(t, t.TempDir())
	defer c.Close()

	entry, created, err := c.Register("first", []byte(ordersYAML))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, ksuid.Nil, entry.ID)
	assert.Equal(t, "first", entry.Segment.Comment)
	require.NotNil(t, entry.Segment.Namespace)
	assert.Equal(t, "orders", entry.Segment.Namespace.Name)
	assert.False(t, entry.Created().IsZero())

	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Fingerprint, got.Fingerprint)
	assert.Equal(t, entry.Segment.SDL, got.Segment.SDL)
}

func TestRegisterIsIdempotent(t *testing.T) {
	c := openCatalog(t, t.TempDir())
	defer c.Close()

	first, created, err := c.Register("yaml", []byte(ordersYAML))
	require.NoError(t, err)
	require.True(t, created)

	// same namespace, different spelling
	second, created, err := c.Register("json", []byte(ordersJSON))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "yaml", second.Segment.Comment)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRegisterRejectsBadNamespaces(t *testing.T) {
	c := openCatalog(t, t.TempDir())
	defer c.Close()

	tests := []struct {
		name  string
		sdl   string
		check func(t *testing.T, err error)
	}{
		{
			name: "unparseable",
			sdl:  "schemas: [",
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "duplicate ids",
			sdl: `
name: dup
schemas:
  - {name: A, id: 1}
  - {name: B, id: 1}
`,
			check: func(t *testing.T, err error) {
				var verr *schema.ValidationError
				assert.True(t, errors.As(err, &verr), "got %v", err)
			},
		},
		{
			name: "non-nullable object",
			sdl: `
name: bad
schemas:
  - name: A
    id: 1
    properties:
      - path: o
        type: {type: object, nullable: false}
`,
			check: func(t *testing.T, err error) {
				var cerr *compiler.CompilationError
				require.True(t, errors.As(err, &cerr), "got %v", err)
				assert.Contains(t, cerr.Error(), "Non-nullable sparse scopes are not supported: 'o'")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Register("", []byte(tt.sdl))
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListAndDelete(t *testing.T) {
	c := openCatalog(t, t.TempDir())
	defer c.Close()

	a, _, err := c.Register("a", []byte(ordersYAML))
	require.NoError(t, err)
	b, _, err := c.Register("b", []byte(`{"name":"other","schemas":[{"name":"X","id":1}]}`))
	require.NoError(t, err)

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	ids := []ksuid.KSUID{entries[0].ID, entries[1].ID}
	assert.ElementsMatch(t, []ksuid.KSUID{a.ID, b.ID}, ids)

	require.NoError(t, c.Delete(a.ID))
	_, err = c.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Delete(a.ID), ErrNotFound)

	entries, err = c.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, b.ID, entries[0].ID)

	// deleted namespaces can be registered again
	again, created, err := c.Register("again", []byte(ordersYAML))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a.ID, again.ID)
}

func TestCatalogPersists(t *testing.T) {
	dir := t.TempDir()

	c := openCatalog(t, dir)
	entry, _, err := c.Register("kept", []byte(ordersYAML))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(dir, Options{Sync: true})
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Segment.Comment)

	_, created, err := c.Register("dup", []byte(ordersJSON))
	require.NoError(t, err)
	assert.False(t, created)
}
