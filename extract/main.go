// Command extract flattens a PubMed article-set XML file into
// tab-separated lines. For each article it prints the five default
// columns (PMID, JournalTitle, VolumeIssue, ISSN, Title), then one line
// per author repeating that prefix followed by the author sub-fields.
// Input may be gzip-compressed; with no -i flag it reads stdin.
package main

import (
	"bufio"
	"flag"
	"log/slog"
	"os"

	"github.com/openbiblio/pubmed-pipeline/internal/logger"
	"github.com/openbiblio/pubmed-pipeline/internal/pubmed"
	"github.com/openbiblio/pubmed-pipeline/internal/stream"
)

func main() {
	log := logger.New("extract")

	var infile string
	flag.StringVar(&infile, "i", "", "input XML file, plain or gzipped (default stdin)")
	full := flag.Bool("full", false, "print one fully-qualified line per article instead")
	flag.Parse()

	in, err := stream.Open(infile)
	if err != nil {
		log.Error("open input", slog.Any("err", err))
		os.Exit(1)
	}
	defer in.Close()

	set, err := pubmed.Parse(in)
	if err != nil {
		log.Error("parse input", slog.Any("err", err))
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for rec := range set.Records() {
		if *full {
			out.WriteString(rec.FullString())
			out.WriteByte('\n')
			continue
		}

		prefix := rec.String()
		out.WriteString(prefix)
		out.WriteByte('\n')
		for _, author := range rec.AuthorList {
			out.WriteString(prefix)
			out.WriteByte('\t')
			out.WriteString(author.String())
			out.WriteByte('\n')
		}
	}
}
