package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	gzip "github.com/klauspost/pgzip"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/openbiblio/pubmed-pipeline/internal/dedupe"
	"github.com/openbiblio/pubmed-pipeline/internal/models"
)

const articleSetPayload = `<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation>
    <PMID>30571303</PMID>
    <DateRevised><Year>2020</Year><Month>02</Month><Day>20</Day></DateRevised>
    <Article>
      <Journal><Title>Am J Public Health</Title></Journal>
      <ArticleTitle>Tobacco use in Europe</ArticleTitle>
      <Language>eng</Language>
    </Article>
  </MedlineCitation>
  <PubmedData>
    <PublicationStatus>ppublish</PublicationStatus>
    <ArticleIdList><ArticleId IdType="pubmed">30571303</ArticleId></ArticleIdList>
  </PubmedData>
</PubmedArticle>
</PubmedArticleSet>`

type stubIndexer struct {
	docs []models.ArticleDocument
}

func (s *stubIndexer) IndexArticle(_ context.Context, doc models.ArticleDocument) error {
	s.docs = append(s.docs, doc)
	return nil
}

func TestProcessMessageIndexesArticles(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}

	msg := kafka.Message{Value: []byte(articleSetPayload)}

	require.NoError(t, processMessage(context.Background(), log, idx, cache, msg))
	require.Len(t, idx.docs, 1)

	doc := idx.docs[0]
	require.Equal(t, "30571303", doc.ID)
	require.Equal(t, "30571303", doc.PMID)
	require.Equal(t, "Tobacco use in Europe", doc.Title)
	require.Equal(t, "Am J Public Health", doc.JournalTitle)

	// The same chunk redelivered does not index the article again.
	require.NoError(t, processMessage(context.Background(), log, idx, cache, msg))
	require.Len(t, idx.docs, 1)
}

func TestProcessMessageGzippedPayload(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(articleSetPayload))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	msg := kafka.Message{Value: buf.Bytes()}

	require.NoError(t, processMessage(context.Background(), log, idx, cache, msg))
	require.Len(t, idx.docs, 1)
	require.Equal(t, "30571303", idx.docs[0].PMID)
}

func TestProcessMessageMalformedPayload(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}

	msg := kafka.Message{Value: []byte("<PubmedArticleSet><PubmedArticle>")}

	require.Error(t, processMessage(context.Background(), log, idx, cache, msg))
	require.Empty(t, idx.docs)
}

func TestProcessMessageEmptySet(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}

	msg := kafka.Message{Value: []byte("<PubmedArticleSet></PubmedArticleSet>")}

	require.NoError(t, processMessage(context.Background(), log, idx, cache, msg))
	require.Empty(t, idx.docs)
}
