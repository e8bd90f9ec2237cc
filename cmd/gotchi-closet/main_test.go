//go:build !lambda

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/respec"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GOTCHI_CATALOG_PATH", "GOTCHI_UPSTREAM_URL", "GOTCHI_CACHE_PATH", "GOTCHI_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("GOTCHI_CACHE_DRIVER", "memory")
	t.Setenv("GOTCHI_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, opts := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := execute(cmd, opts)
	return out.String(), err
}

func TestParseInts(t *testing.T) {
	v, err := parseInts(" 1, -2,3 ")
	require.NoError(t, err)
	require.Equal(t, []int{1, -2, 3}, v)

	v, err = parseInts("")
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = parseInts("1,x")
	require.Error(t, err)

	_, err = parseEditable("1,2,3,4,5")
	require.Error(t, err)
	e, err := parseEditable("1,2")
	require.NoError(t, err)
	require.Equal(t, traits.Editable{1, 2, 0, 0}, e)
}

func TestAllocate(t *testing.T) {
	s := respec.NewSession("1", 3)
	got, err := allocate(s, traits.Editable{2, -1, 0, 0})
	require.NoError(t, err)
	require.Equal(t, traits.Editable{2, -1, 0, 0}, got)
	require.Equal(t, respec.Idle, s.Mode())

	_, err = allocate(respec.NewSession("1", 3), traits.Editable{2, 2, 0, 0})
	require.Error(t, err)
}

func TestBestSetsCommand(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "best-sets", "--traits", "50,50,50,50,50,50", "--limit", "3", "--json")
	require.NoError(t, err)

	var res struct {
		BaseScore int `json:"baseScore"`
		Results   []struct {
			Delta int `json:"delta"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 306, res.BaseScore)
	require.Len(t, res.Results, 3)
	require.GreaterOrEqual(t, res.Results[0].Delta, res.Results[2].Delta)

	out, err = run(t, "best-sets", "--traits", "50,50,50,50")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Base BRS: 204\n"))

	_, err = run(t, "best-sets", "--traits", "50,50")
	require.Error(t, err)
}

func TestRespecCommandFallback(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "respec", "--traits", "12,10,10,10,50,50", "--alloc", "1,0,0,0", "--used", "3", "--json")
	require.NoError(t, err)

	var res respecOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.UsingFallback)
	require.Equal(t, traits.Editable{13, 10, 10, 10}, res.SimBase)
	require.Equal(t, 3, res.SpiritPoints)

	_, err = run(t, "respec", "--traits", "12,10,10,10", "--alloc", "4,0,0,0", "--used", "3")
	require.Error(t, err)
}

func TestRespecCommandFetchesBaseTraits(t *testing.T) {
	isolateEnv(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"baseTraits":[10,10,10,10,50,50]}`))
	}))
	defer upstream.Close()
	t.Setenv("GOTCHI_UPSTREAM_URL", upstream.URL)

	out, err := run(t, "respec", "--traits", "12,10,10,10,50,50", "--token", "42",
		"--modified", "14,10,10,10,50,50", "--json")
	require.NoError(t, err)

	var res respecOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.UsingFallback)
	require.Empty(t, res.UpstreamError)
	require.Equal(t, traits.Editable{10, 10, 10, 10}, res.SimBase)
	require.Equal(t, traits.Editable{12, 10, 10, 10}, res.SimModified)

	out, err = run(t, "base-traits", "42")
	require.NoError(t, err)
	require.Contains(t, out, `"tokenId": "42"`)
}

func TestCatalogValidate(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "sets.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"id": 1, "name": "Twin", "wearableIds": [1], "traitBonuses": [1,0,0,0,0,0], "setBonusBRS": 1},
		{"id": 2, "name": "twin", "wearableIds": [2], "traitBonuses": [0,1,0,0,0,0], "setBonusBRS": 1}
	]`), 0o644))

	out, err := run(t, "catalog", "validate", good)
	require.NoError(t, err)
	require.Contains(t, out, "ok: 2 sets")
	require.Contains(t, out, `duplicate set id "twin"`)

	_, err = run(t, "catalog", "validate", "--strict", good)
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"name": "X", "traitBonuses": [1,2]}]`), 0o644))
	_, err = run(t, "catalog", "validate", bad)
	require.Error(t, err)
}

func TestSetsCommand(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "sets")
	require.NoError(t, err)
	require.Contains(t, out, "infantry")
}

func TestFailedCommandStillClosesApp(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GOTCHI_CACHE_DRIVER", "sqlite")
	t.Setenv("GOTCHI_CACHE_PATH", filepath.Join(t.TempDir(), "cache.db"))

	for _, args := range [][]string{
		{"best-sets", "--traits", "50,50"},
		{"respec", "--traits", "10,10,10,10", "--alloc", "4,0,0,0", "--used", "1"},
		{"sets"},
	} {
		cmd, opts := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		_ = execute(cmd, opts)
		require.NotNil(t, opts.app, "%v", args)
		require.True(t, opts.app.closed, "%v left the app open", args)
		require.Len(t, opts.app.closers, 1)
	}
}
