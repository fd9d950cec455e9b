package envfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/keyweave/internal/errs"
	"github.com/ylchen07/keyweave/pkg/models"
)

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	err := Write([]models.SecretValue{
		{ID: "SECRET_KEY", Value: "secret_value1"},
		{ID: "API_KEY", Value: "secret_value2"},
	}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SECRET_KEY=secret_value1\nAPI_KEY=secret_value2\n", string(data))
}

func TestWriteUsesLastPathSegment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.env")

	err := Write([]models.SecretValue{
		{ID: "https://kv1.vault.azure.net/secrets/testSecret", Value: "testSecretValue"},
		{ID: "svc/filterTestSecret", Value: "filterTestSecretValue"},
		{ID: "svc/failed", Value: ""},
	}, path)
	require.NoError(t, err)

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"testSecret":       "testSecretValue",
		"filterTestSecret": "filterTestSecretValue",
		"failed":           "",
	}, env)
}

func TestWriteTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OLD=stale\nOTHER=stale\n"), 0o600))

	require.NoError(t, Write([]models.SecretValue{{ID: "svc/NEW", Value: "fresh"}}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "NEW=fresh\n", string(data))
}

func TestWriteEmptyResultSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, Write(nil, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestWriteCreateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", ".env")

	err := Write([]models.SecretValue{{ID: "a", Value: "b"}}, path)
	require.Error(t, err)
	assert.Equal(t, "IoError", errs.Kind(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestEncodeVerbatim(t *testing.T) {
	var buf bytes.Buffer

	err := Encode(&buf, []models.SecretValue{
		{ID: "svc/CONN", Value: `Server=tcp;Password="p=w d"#x`},
		{ID: "svc/MULTI", Value: "line1\nline2"},
		{ID: "svc/dup", Value: "1"},
		{ID: "svc/dup", Value: "2"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"CONN=Server=tcp;Password=\"p=w d\"#x\n"+
			"MULTI=line1\nline2\n"+
			"dup=1\n"+
			"dup=2\n",
		buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeWriteFailure(t *testing.T) {
	err := Encode(failingWriter{}, []models.SecretValue{{ID: "a", Value: "b"}})
	assert.EqualError(t, err, "disk full")
}
