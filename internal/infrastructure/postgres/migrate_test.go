package postgres

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	migs, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migs, 3)

	for i, m := range migs {
		assert.Equal(t, int64(i+1), m.Version)
		assert.NotEmpty(t, strings.TrimSpace(m.UpSQL), m.Name)
		assert.NotEmpty(t, strings.TrimSpace(m.DownSQL), m.Name)
	}
	assert.Equal(t, "add_image_url_to_products", migs[1].Name)
	assert.Contains(t, migs[1].UpSQL, "image_url")
	assert.Contains(t, migs[1].DownSQL, "DROP COLUMN")
}

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"10_b.up.sql":   {Data: []byte("SELECT 10")},
		"10_b.down.sql": {Data: []byte("SELECT -10")},
		"2_a.up.sql":    {Data: []byte("SELECT 2")},
		"2_a.down.sql":  {Data: []byte("SELECT -2")},
		"README.md":     {Data: []byte("ignored")},
	}
	migs, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(2), migs[0].Version)
	assert.Equal(t, int64(10), migs[1].Version)
	assert.Equal(t, "SELECT -10", migs[1].DownSQL)
}

func TestLoadMigrationsRejectsBadInput(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"missing down": {
			"1_a.up.sql": {Data: []byte("SELECT 1")},
		},
		"no direction": {
			"1_a.sql": {Data: []byte("SELECT 1")},
		},
		"bad version": {
			"x_a.up.sql":   {Data: []byte("SELECT 1")},
			"x_a.down.sql": {Data: []byte("SELECT 1")},
		},
		"no name": {
			"1.up.sql":   {Data: []byte("SELECT 1")},
			"1.down.sql": {Data: []byte("SELECT 1")},
		},
		"name mismatch": {
			"1_a.up.sql":   {Data: []byte("SELECT 1")},
			"1_b.down.sql": {Data: []byte("SELECT 1")},
		},
		"empty body": {
			"1_a.up.sql":   {Data: []byte("  ")},
			"1_a.down.sql": {Data: []byte("SELECT 1")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadMigrations(fsys)
			require.Error(t, err)
		})
	}
}
