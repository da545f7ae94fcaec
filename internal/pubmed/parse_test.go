package pubmed_test

import (
	"strings"
	"testing"

	"github.com/openbiblio/pubmed-pipeline/internal/pubmed"
	"github.com/stretchr/testify/require"
)

const sampleSet = `<?xml version="1.0" encoding="UTF-8"?>
<PubmedArticleSet>
<PubmedArticle>
  <MedlineCitation Status="MEDLINE">
    <PMID Version="1">1234</PMID>
    <DateCompleted><Year>2019</Year><Month>01</Month><Day>15</Day></DateCompleted>
    <DateRevised><Year>2020</Year><Month>02</Month><Day>20</Day></DateRevised>
    <Article PubModel="Print">
      <Journal>
        <ISSN IssnType="Print">1234-5678</ISSN>
        <JournalIssue CitedMedium="Print">
          <Volume>12</Volume>
          <Issue>3</Issue>
          <PubDate><Year>2019</Year><Month>Jan</Month></PubDate>
        </JournalIssue>
        <Title>Journal of Testing</Title>
        <ISOAbbreviation>J Test</ISOAbbreviation>
      </Journal>
      <ArticleTitle>Recurrence diagnostics with <sup>18</sup> F-FDG PET/MRI</ArticleTitle>
      <Pagination><MedlinePgn>101-109</MedlinePgn></Pagination>
      <ELocationID EIdType="doi" ValidYN="Y">10.1000/test.2019</ELocationID>
      <Abstract>
        <AbstractText Label="OBJECTIVES">To evaluate <sup>18</sup> F imaging.</AbstractText>
        <AbstractText Label="METHODS">A total of 32 datasets.</AbstractText>
      </Abstract>
      <AuthorList CompleteYN="Y">
        <Author ValidYN="Y">
          <LastName>Kirchner</LastName>
          <ForeName>Julian</ForeName>
          <Initials>J</Initials>
          <Identifier Source="ORCID">0000-0001-8224-3433</Identifier>
          <AffiliationInfo>
            <Affiliation>Department of Radiology, University of Dusseldorf, Germany. Electronic address: j.kirchner@uni-d.de.</Affiliation>
          </AffiliationInfo>
          <AffiliationInfo>
            <Affiliation>Department of Radiology, University of Dusseldorf, Germany</Affiliation>
          </AffiliationInfo>
        </Author>
        <Author>
          <CollectiveName>PET Consortium team@pet-consortium.org</CollectiveName>
        </Author>
      </AuthorList>
      <Language>eng</Language>
      <GrantList CompleteYN="Y">
        <Grant>
          <GrantID>JCYJ2014</GrantID>
          <Agency>Basic Research Fund</Agency>
          <Country>International</Country>
        </Grant>
      </GrantList>
    </Article>
    <MeshHeadingList>
      <MeshHeading>
        <DescriptorName UI="D066300" MajorTopicYN="Y">Electronic Nicotine Delivery Systems</DescriptorName>
        <QualifierName UI="Q000379" MajorTopicYN="N">methods</QualifierName>
      </MeshHeading>
    </MeshHeadingList>
  </MedlineCitation>
  <PubmedData>
    <PublicationStatus>ppublish</PublicationStatus>
    <ArticleIdList>
      <ArticleId IdType="pubmed">1234</ArticleId>
      <ArticleId IdType="doi">10.1000/test.2019</ArticleId>
    </ArticleIdList>
    <ReferenceList>
      <Reference>
        <Citation>Nat Methods. 2009</Citation>
        <ArticleIdList>
          <ArticleId IdType="pubmed">19668203</ArticleId>
        </ArticleIdList>
      </Reference>
      <Reference>
        <Citation>Appl Environ Microbiol. 2010</Citation>
      </Reference>
    </ReferenceList>
  </PubmedData>
</PubmedArticle>
</PubmedArticleSet>`

func parseRecords(t *testing.T, doc string) []pubmed.Record {
	t.Helper()
	set, err := pubmed.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	var out []pubmed.Record
	for rec := range set.Records() {
		out = append(out, rec)
	}
	return out
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := pubmed.Parse(strings.NewReader("<PubmedArticleSet><PubmedArticle>"))
	require.Error(t, err)
}

func TestParseEmptySet(t *testing.T) {
	recs := parseRecords(t, `<PubmedArticleSet></PubmedArticleSet>`)
	require.Empty(t, recs)
}

func TestParseScalarFields(t *testing.T) {
	recs := parseRecords(t, sampleSet)
	require.Len(t, recs, 1)
	rec := recs[0]

	require.Equal(t, "00001234", rec.PMID)
	require.Equal(t, "2019-01-15", rec.DateCompleted)
	require.Equal(t, "2020-02-20", rec.DateRevised)
	require.Equal(t, "1234-5678", rec.ISSN)
	require.Equal(t, "Journal of Testing", rec.JournalTitle)
	require.Equal(t, "J Test", rec.ISOAbbreviation)
	require.Equal(t, "12-3", rec.VolumeIssue)
	require.Equal(t, "2019-Jan", rec.PubDate)
	require.Equal(t, "Recurrence diagnostics with 18 F-FDG PET/MRI", rec.Title)
	require.Equal(t, "101-109", rec.Pagination)
	require.Equal(t, "eng", rec.Language)
	require.Equal(t, "doi:10.1000/test.2019", rec.ELocationID)
	require.Equal(t, "ppublish", rec.PublicationStatus)
}

func TestParseRosters(t *testing.T) {
	recs := parseRecords(t, sampleSet)
	require.Len(t, recs, 1)
	rec := recs[0]

	require.Equal(t, []string{"JCYJ2014:Basic Research Fund:International"}, rec.GrantList)
	require.Equal(t, []string{
		"D066300:Electronic Nicotine Delivery Systems",
		"Q000379:methods",
	}, rec.MeshHeadingList)
	require.Equal(t, []string{"pubmed:1234", "doi:10.1000/test.2019"}, rec.ArticleIdList)
	require.Equal(t, []string{
		"Nat Methods. 2009(pubmed:19668203)",
		"Appl Environ Microbiol. 2010()",
	}, rec.ReferenceList)
}

func TestParseAbstractSections(t *testing.T) {
	recs := parseRecords(t, sampleSet)
	require.Len(t, recs, 1)

	want := "OBJECTIVES:To evaluate 18 F imaging.\nMETHODS:A total of 32 datasets."
	require.Equal(t, want, recs[0].Abstract)
}

func TestParseAuthors(t *testing.T) {
	recs := parseRecords(t, sampleSet)
	require.Len(t, recs, 1)
	authors := recs[0].AuthorList
	require.Len(t, authors, 2)

	personal := authors[0]
	require.Equal(t, "Kirchner Julian", personal.FullName)
	require.Equal(t, "Kirchner J", personal.InitialName)
	require.Equal(t, "ORCID:0000-0001-8224-3433", personal.Identifier)
	// Repeated affiliation collapses to one entry.
	require.Equal(t, "Department of Radiology, University of Dusseldorf, Germany", personal.Affiliation)
	require.Equal(t, "j.kirchner@uni-d.de", personal.EMail)

	collective := authors[1]
	require.Equal(t, "PET Consortium", collective.FullName)
	require.Equal(t, "", collective.InitialName)
	require.Equal(t, "team@pet-consortium.org", collective.EMail)
	require.Equal(t, "", collective.Identifier)
	require.Equal(t, "", collective.Affiliation)
}

func TestParseMissingSubtreesDefaultEmpty(t *testing.T) {
	recs := parseRecords(t, `<PubmedArticleSet><PubmedArticle>
  <MedlineCitation><PMID>7</PMID></MedlineCitation>
</PubmedArticle></PubmedArticleSet>`)
	require.Len(t, recs, 1)
	rec := recs[0]

	require.Equal(t, "00000007", rec.PMID)
	require.Equal(t, "", rec.JournalTitle)
	require.Equal(t, "", rec.Abstract)
	require.Equal(t, "", rec.ELocationID)
	require.Empty(t, rec.AuthorList)
	require.Empty(t, rec.GrantList)
	require.Empty(t, rec.MeshHeadingList)
	require.Empty(t, rec.ArticleIdList)
	require.Empty(t, rec.ReferenceList)
}

func TestExtractionIsDeterministic(t *testing.T) {
	render := func() string {
		var lines []string
		for _, rec := range parseRecords(t, sampleSet) {
			lines = append(lines, rec.FullString())
		}
		return strings.Join(lines, "\n")
	}

	require.Equal(t, render(), render())
}
