package integration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// wubiTable builds a minimal ibus-table database and returns its bytes.
func wubiTable(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wubi.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE ime (attr TEXT, val TEXT)")
	require.NoError(t, err)
	for _, row := range [][2]string{
		{"name", "WubiJidian86"},
		{"name.zh_CN", "极点五笔86"},
		{"description", "Wubi Jidian 86 input method"},
		{"languages", "zh_CN,zh_SG"},
	} {
		_, err = db.Exec("INSERT INTO ime (attr, val) VALUES (?, ?)", row[0], row[1])
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
