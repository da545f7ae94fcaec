package models

import (
	"time"

	"github.com/openbiblio/pubmed-pipeline/internal/pubmed"
)

// ArticleDocument is the canonical article shape stored in Elasticsearch.
// It is a flat view of a pubmed.Record plus the ingestion timestamp used
// for retention.
type ArticleDocument struct {
	ID                string    `json:"id"`
	PMID              string    `json:"pmid"`
	Title             string    `json:"title"`
	JournalTitle      string    `json:"journal_title"`
	ISOAbbreviation   string    `json:"iso_abbreviation"`
	ISSN              string    `json:"issn"`
	VolumeIssue       string    `json:"volume_issue"`
	PubDate           string    `json:"pub_date"`
	DateCompleted     string    `json:"date_completed"`
	DateRevised       string    `json:"date_revised"`
	Pagination        string    `json:"pagination"`
	Abstract          string    `json:"abstract"`
	Language          string    `json:"language"`
	ELocationID       string    `json:"elocation_id"`
	PublicationStatus string    `json:"publication_status"`
	Authors           []string  `json:"authors"`
	Affiliations      []string  `json:"affiliations"`
	Grants            []string  `json:"grants"`
	MeshHeadings      []string  `json:"mesh_headings"`
	ArticleIDs        []string  `json:"article_ids"`
	References        []string  `json:"references"`
	IngestedAt        time.Time `json:"ingested_at"`
}

// FromRecord maps an extracted record onto the index document. The document
// ID is the zero-padded PMID; callers fall back to a random ID when the
// source had none.
func FromRecord(rec pubmed.Record, ingestedAt time.Time) ArticleDocument {
	var authors, affiliations []string
	for _, a := range rec.AuthorList {
		if a.FullName != "" {
			authors = append(authors, a.FullName)
		}
		if a.Affiliation != "" {
			affiliations = append(affiliations, a.Affiliation)
		}
	}

	id := rec.PMID
	if id == "00000000" {
		// All-zero padding means the citation carried no PMID at all.
		id = ""
	}

	return ArticleDocument{
		ID:                id,
		PMID:              rec.PMID,
		Title:             rec.Title,
		JournalTitle:      rec.JournalTitle,
		ISOAbbreviation:   rec.ISOAbbreviation,
		ISSN:              rec.ISSN,
		VolumeIssue:       rec.VolumeIssue,
		PubDate:           rec.PubDate,
		DateCompleted:     rec.DateCompleted,
		DateRevised:       rec.DateRevised,
		Pagination:        rec.Pagination,
		Abstract:          rec.Abstract,
		Language:          rec.Language,
		ELocationID:       rec.ELocationID,
		PublicationStatus: rec.PublicationStatus,
		Authors:           authors,
		Affiliations:      affiliations,
		Grants:            rec.GrantList,
		MeshHeadings:      rec.MeshHeadingList,
		ArticleIDs:        rec.ArticleIdList,
		References:        rec.ReferenceList,
		IngestedAt:        ingestedAt,
	}
}
