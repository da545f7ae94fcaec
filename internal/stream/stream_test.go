package stream_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	gzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"

	"github.com/openbiblio/pubmed-pipeline/internal/stream"
)

func TestReaderPassesPlainTextThrough(t *testing.T) {
	r, err := stream.Reader(bytes.NewReader([]byte("<PubmedArticleSet/>")))
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "<PubmedArticleSet/>", string(data))
}

func TestReaderDecompressesGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("<PubmedArticleSet></PubmedArticleSet>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, err := stream.Reader(&buf)
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "<PubmedArticleSet></PubmedArticleSet>", string(data))
}

func TestReaderEmptyInput(t *testing.T) {
	r, err := stream.Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/set.xml"
	require.NoError(t, os.WriteFile(path, []byte("<PubmedArticleSet/>"), 0o644))

	rc, err := stream.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "<PubmedArticleSet/>", string(data))
}

func TestOpenGzipFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/set.xml.gz"

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("<PubmedArticleSet/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	rc, err := stream.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "<PubmedArticleSet/>", string(data))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := stream.Open("/no/such/file.xml")
	require.Error(t, err)
}
