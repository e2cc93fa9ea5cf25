package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/logger"
	"github.com/puffinc/hercules/internal/types"
)

type keysDoc struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	MaxKeyLen int       `json:"max_key_len"`
	Profile   *struct{} `json:"profile"`
	Keys      struct {
		Verdicts []struct {
			Key        []string `json:"key"`
			IsKey      bool     `json:"is_key"`
			ReasonKind string   `json:"reason_kind"`
		} `json:"verdicts"`
		Alternates [][]string `json:"alternate_keys"`
		Nullable   []string   `json:"nullable_columns"`
	} `json:"keys"`
}

func TestKeysCommandStructure(t *testing.T) {
	assert.Equal(t, "keys [csv-file]", keysCmd.Use)
	assert.NotEmpty(t, keysCmd.Short)
	assert.Contains(t, keysCmd.Long, "Example:")
	assert.Contains(t, keysCmd.Long, "hercules keys")
	assert.NotNil(t, keysCmd.RunE)
	assert.NotNil(t, keysCmd.Flags().Lookup("keys-only"))
}

func TestKeys_JSON(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := executeCommand(t, "keys", path, "--format", "json", "--max-key-len", "2")
	require.NoError(t, err)

	var doc keysDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, "people.csv", filepath.Base(doc.Source))
	assert.Equal(t, 2, doc.MaxKeyLen)
	assert.Nil(t, doc.Profile, "keys runs do not profile")

	var got []string
	for _, v := range doc.Keys.Verdicts {
		got = append(got, v.ReasonKind)
	}
	// [id] [name] [city] [id name] [id city] [name city]
	assert.Equal(t, []string{"", "duplicate", "nullable", "subsumed", "nullable", "nullable"}, got)
	assert.True(t, doc.Keys.Verdicts[0].IsKey)
	assert.Equal(t, [][]string{{"id"}}, doc.Keys.Alternates)
	assert.Equal(t, []string{"city"}, doc.Keys.Nullable)
}

func TestKeys_KeysOnlyYAML(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := executeCommand(t, "keys", path, "--format", "yaml", "--keys-only", "--workers", "4")
	require.NoError(t, err)

	var doc struct {
		Keys struct {
			Verdicts []struct {
				Key   []string `yaml:"key"`
				IsKey bool     `yaml:"is_key"`
			} `yaml:"verdicts"`
		} `yaml:"keys"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Keys.Verdicts, 1)
	assert.Equal(t, []string{"id"}, doc.Keys.Verdicts[0].Key)
	assert.True(t, doc.Keys.Verdicts[0].IsKey)
}

func TestKeys_TextNoKey(t *testing.T) {
	path := writeFile(t, "dups.csv", "a,b\n1,1\n1,1\n")

	out, err := executeCommand(t, "keys", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "[Business keys (max length 4)]")
	assert.Contains(t, out, "No key found.")
	assert.NotContains(t, out, "[Shape]")
}

func TestKeys_DuplicateHeader(t *testing.T) {
	path := writeFile(t, "dup.csv", "a,a\n1,2\n")

	_, err := executeCommand(t, "keys", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load dataset")
}

func TestKeys_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "keys", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestKeys_TooManyArgs(t *testing.T) {
	_, err := executeCommand(t, "keys", "a.csv", "b.csv")
	require.Error(t, err)
}

func TestDiscover_CancelledKeepsPartialResult(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "a", Values: []types.Value{types.Number(1), types.Number(2)}},
		{Name: "b", Values: []types.Value{types.Text("x"), types.Text("x")}},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DefaultConfig()
	cfg.Discovery.TimeoutSeconds = 60
	res, err := discover(ctx, cfg, ds, logger.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Empty(t, res.Verdicts)
}
