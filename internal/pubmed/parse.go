package pubmed

import (
	"fmt"
	"io"
	"iter"

	"github.com/openbiblio/pubmed-pipeline/internal/xmltree"
)

// Set is one parsed article-set document. The tree is read-only and lives
// only as long as the Set; records taken from it carry no reference back.
type Set struct {
	root *xmltree.Node
}

// Parse reads a whole article-set document from r into memory. Malformed
// XML is fatal: no records are produced from a document that does not
// parse. The reader must already be decompressed (see internal/stream).
func Parse(r io.Reader) (*Set, error) {
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("pubmed: %w", err)
	}
	return &Set{root: root}, nil
}

// Records yields one Record per PubmedArticle element in document order.
// Articles are flattened lazily as the consumer reaches them; a document
// with no articles yields nothing.
func (s *Set) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, article := range s.root.Descendants("PubmedArticle") {
			if !yield(extractRecord(article)) {
				return
			}
		}
	}
}

// extractRecord flattens one PubmedArticle element. Navigation walks
// explicit direct-child steps along the schema; an absent subtree leaves
// the field at its empty default.
func extractRecord(article *xmltree.Node) Record {
	citation := article.Child("MedlineCitation")
	data := article.Child("PubmedData")
	art := citation.Child("Article")
	journal := art.Child("Journal")
	issue := journal.Child("JournalIssue")

	return Record{
		PMID:              padPMID(citation.Child("PMID").MixedText(" ")),
		DateCompleted:     citation.Child("DateCompleted").ChildText(nil, "-", false),
		DateRevised:       citation.Child("DateRevised").ChildText(nil, "-", false),
		ISSN:              journal.Child("ISSN").MixedText(" "),
		JournalTitle:      journal.Child("Title").MixedText(" "),
		ISOAbbreviation:   journal.Child("ISOAbbreviation").MixedText(" "),
		VolumeIssue:       issue.ChildText([]string{"Volume", "Issue"}, "-", false),
		PubDate:           issue.Child("PubDate").ChildText(nil, "-", false),
		Title:             art.Child("ArticleTitle").MixedText(" "),
		Pagination:        art.Child("Pagination").ChildText(nil, listSep, false),
		Abstract:          abstractText(art.Child("Abstract")),
		Language:          art.Child("Language").MixedText(" "),
		ELocationID:       eLocationID(art.Child("ELocationID")),
		AuthorList:        authorList(art.Child("AuthorList")),
		GrantList:         grantList(art.Child("GrantList")),
		MeshHeadingList:   meshHeadingList(citation.Child("MeshHeadingList")),
		ArticleIdList:     articleIDList(data.Child("ArticleIdList")),
		PublicationStatus: data.Child("PublicationStatus").MixedText(" "),
		ReferenceList:     referenceList(data.Child("ReferenceList")),
	}
}

func eLocationID(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	return n.AttrText([]string{"EIdType"}, "-", false) + ":" + n.MixedText(" ")
}
