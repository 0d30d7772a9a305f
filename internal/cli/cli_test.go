package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeNodeConfig writes a config whose state database lives under dir.
func writeNodeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultConfigFile)
	body := "[node_db]\ntype = \"pebble\"\npath = \"" + filepath.ToSlash(filepath.Join(dir, "state")) + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "marketd version "+Version)
}

func TestAddresses(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "addresses", "--dir", dir, "8453", "CollectionOffers", "0xabc")
	require.NoError(t, err)
	assert.Contains(t, out, "8453.json")

	_, err = run(t, "addresses", "--dir", dir, "8453", "Registrar", "0xdef")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "8453.json"))
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]string{"CollectionOffers": "0xabc", "Registrar": "0xdef"}, got)

	_, err = run(t, "addresses", "--dir", dir, "8453", "Orphan")
	assert.Error(t, err)
}

func TestExportImportCheck(t *testing.T) {
	src := writeNodeConfig(t, t.TempDir())
	dst := writeNodeConfig(t, t.TempDir())
	file := filepath.Join(t.TempDir(), "state.snap")

	// Seed the source node with one standing offer.
	cfg, err := config.LoadConfig(src)
	require.NoError(t, err)
	n, err := openNode(cfg)
	require.NoError(t, err)
	require.NoError(t, collectionoffers.Bootstrap(n.ledger, 100))
	registrar, err := cfg.Market.RegistrarID()
	require.NoError(t, err)
	buyer := types.MustParseAccountID("0x00000000000000000000000000000000000000b1")
	collection := types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
	res := n.engine.Apply(assets.NewDeposit(registrar, buyer, types.NewAmount(500)))
	require.Equal(t, tx.TesSUCCESS, res.Result)
	res = n.engine.Apply(collectionoffers.NewCollectionOfferCreate(buyer, collection, types.NewAmount(200)))
	require.Equal(t, tx.TesSUCCESS, res.Result)
	require.NoError(t, n.Close())

	out, err := run(t, "--conf", src, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "state OK")

	out, err = run(t, "--conf", src, "export", "--compressor", "lz4", file)
	require.NoError(t, err)
	assert.Contains(t, out, "exported")

	out, err = run(t, "--conf", dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported")

	out, err = run(t, "--conf", dst, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "state OK")

	// A second import into the now populated node is refused.
	_, err = run(t, "--conf", dst, "import", file)
	assert.Error(t, err)
}
