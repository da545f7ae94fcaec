// Package pubmed flattens PubMed article-set XML into tabular records.
//
// Input is the efetch / baseline-file schema distributed at
// https://ftp.ncbi.nlm.nih.gov/pubmed/baseline/. Each PubmedArticle element
// becomes one Record; every field is present on every record, defaulting to
// an empty string or empty list when the source subtree is missing.
package pubmed

import "strings"

const (
	// connector between record columns.
	fieldSep = "\t"
	// connector within list-valued columns and author sub-fields.
	listSep = "|"
)

// Record is one flattened article. Field names and order follow the
// baseline schema's column conventions.
type Record struct {
	PMID              string
	DateCompleted     string
	DateRevised       string
	ISSN              string
	JournalTitle      string
	ISOAbbreviation   string
	VolumeIssue       string
	PubDate           string
	Title             string
	Pagination        string
	Abstract          string
	Language          string
	ELocationID       string
	AuthorList        []Author
	GrantList         []string
	MeshHeadingList   []string
	ArticleIdList     []string
	PublicationStatus string
	ReferenceList     []string
}

// Author is one roster entry. Either FullName holds a collective name and
// InitialName is empty, or FullName/InitialName hold the full-name and
// initials forms of a personal name. Identifier, Affiliation and EMail are
// pipe-joined insertion-ordered sets.
type Author struct {
	FullName    string
	InitialName string
	Identifier  string
	Affiliation string
	EMail       string
}

// Fields returns the author sub-fields in serialization order.
func (a Author) Fields() []string {
	return []string{a.FullName, a.InitialName, a.Identifier, a.Affiliation, a.EMail}
}

// String joins the author sub-fields with tabs.
func (a Author) String() string {
	return strings.Join(a.Fields(), fieldSep)
}

// String renders the default five-column form: PMID, JournalTitle,
// VolumeIssue, ISSN and Title joined by tabs.
func (r Record) String() string {
	return strings.Join([]string{r.PMID, r.JournalTitle, r.VolumeIssue, r.ISSN, r.Title}, fieldSep)
}

// FullString renders every column joined by tabs. List columns are
// pipe-joined; each author contributes its sub-fields joined by commas.
func (r Record) FullString() string {
	authors := make([]string, 0, len(r.AuthorList))
	for _, a := range r.AuthorList {
		authors = append(authors, strings.Join(a.Fields(), ","))
	}
	cols := []string{
		r.PMID,
		r.DateCompleted,
		r.DateRevised,
		r.ISSN,
		r.JournalTitle,
		r.ISOAbbreviation,
		r.VolumeIssue,
		r.PubDate,
		r.Title,
		r.Pagination,
		r.Abstract,
		r.Language,
		r.ELocationID,
		r.PublicationStatus,
		strings.Join(authors, listSep),
		strings.Join(r.GrantList, listSep),
		strings.Join(r.MeshHeadingList, listSep),
		strings.Join(r.ArticleIdList, listSep),
		strings.Join(r.ReferenceList, listSep),
	}
	return strings.Join(cols, fieldSep)
}

// padPMID left-pads a PMID to eight characters with zeros.
func padPMID(id string) string {
	if len(id) >= 8 {
		return id
	}
	return strings.Repeat("0", 8-len(id)) + id
}
