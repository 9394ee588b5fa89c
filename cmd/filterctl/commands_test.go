package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetyard/fleetdash/internal/domains/idleassets"
	"github.com/fleetyard/fleetdash/internal/domains/yardcheck"
	"github.com/fleetyard/fleetdash/internal/storage"
	"github.com/fleetyard/fleetdash/internal/value"
)

func seeded(t *testing.T) (*storage.Service, opener) {
	t.Helper()
	svc := storage.NewService(storage.NewMemoryBackend(), nil)

	yc := yardcheck.New("7", svc)
	yc.SetViewFilter(yardcheck.LastReported, value.Number(7))
	idle := idleassets.New("7", svc)
	idle.ToggleFilterBar()
	require.NoError(t, svc.Backend().Set("7:assets-filters", []byte(`{"version":2,"state":{}}`)))

	return svc, func() (*storage.Service, func(), error) { return svc, func() {}, nil }
}

func run(t *testing.T, open opener, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	_, open := seeded(t)

	out, err := run(t, open, "list", "--user", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "yardCheck")
	assert.Contains(t, out, "idleAssets")
	assert.Contains(t, out, "stale (current 5)")
}

func TestShow(t *testing.T) {
	_, open := seeded(t)

	out, err := run(t, open, "show", "-u", "7", "-d", "yardCheck")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": 8`)
	assert.Contains(t, out, `"lastReported": 7`)

	_, err = run(t, open, "show", "-u", "7", "-d", "movingAssets")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClear(t *testing.T) {
	svc, open := seeded(t)

	out, err := run(t, open, "clear", "-u", "7", "-d", "idleAssets")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared idleAssets filters of 7")

	out, err = run(t, open, "clear", "-u", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared 2 snapshots of 7")

	keys, err := svc.Backend().Keys("")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestUserFlagRequired(t *testing.T) {
	_, open := seeded(t)
	_, err := run(t, open, "list")
	assert.Error(t, err)
}

func TestShowField(t *testing.T) {
	_, open := seeded(t)

	out, err := run(t, open, "show", "-u", "7", "-d", "yardCheck", "-f", "operational.lastReported")
	require.NoError(t, err)
	assert.Equal(t, "base\t28\nview\t7\n", out)

	_, err = run(t, open, "show", "-u", "7", "-d", "yardCheck", "-f", "lastReported")
	assert.Error(t, err)
}
