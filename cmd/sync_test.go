package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCommand_Backfills(t *testing.T) {
	dir := chtemp(t)

	// CMF stub answering every day query in Chilean notation.
	cmfSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/uf/"), "unexpected path %s", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"UFs": [{"Fecha": "2024-03-10", "Valor": "36.892,15"}]}`)
	}))
	defer cmfSrv.Close()

	t.Setenv("VALORUF_CMF_KEY", "test-key")
	t.Setenv("VALORUF_CMF_BASE_URL", cmfSrv.URL)
	t.Setenv("VALORUF_STORE_SQLITE_PATH", filepath.Join(dir, "uf.db"))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"sync", "2024-03-10", "2024-03-12"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Backfilled 3 days.")
}

func TestSyncCommand_InvertedRange(t *testing.T) {
	dir := chtemp(t)
	t.Setenv("VALORUF_STORE_SQLITE_PATH", filepath.Join(dir, "uf.db"))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"sync", "2024-03-12", "2024-03-10"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start date after end date")
}
