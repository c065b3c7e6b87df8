package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{
		"webhook-service", "courier-worker", "notification-subscriber", "tracking-service", "migrate",
	}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestMigrateCmd_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "orders.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  driver: sqlite
  path: `+dbPath+`
log:
  level: error
`), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"--config", cfgPath, "migrate"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestCourierCmd_RequiresWorkerName(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  driver: sqlite
  path: `+filepath.Join(dir, "orders.db")+`
`), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"--config", cfgPath, "courier-worker"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--worker-name")
}
