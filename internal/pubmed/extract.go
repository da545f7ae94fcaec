package pubmed

import (
	"regexp"
	"strings"

	"github.com/openbiblio/pubmed-pipeline/internal/xmltree"
)

var (
	emailRe         = regexp.MustCompile(`[\w.\-]+@[\w.\-]+`)
	emailJunkRe     = regexp.MustCompile(`[.\s]+$`)
	electronicRe    = regexp.MustCompile(`Electronic address:\s+`)
	orcidRe         = regexp.MustCompile(`ORCID:\s*(\w{4}-\w{4}-\w{4}-\w{4})`)
	orcidStripRe    = regexp.MustCompile(`ORCID:\s*\w{4}-\w{4}-\w{4}-\w{4}\.*`)
	orcidURLRe      = regexp.MustCompile(`ORCID:\s*https?://orcid\.org/(\w{4}-\w{4}-\w{4}-\w{4})`)
	orcidURLStripRe = regexp.MustCompile(`ORCID:\s*https?://orcid\.org/\w{4}-\w{4}-\w{4}-\w{4}`)
	affSplitRe      = regexp.MustCompile(`[;|]`)
	affTrimRe       = regexp.MustCompile(`^[.\s]+|[.\s]+$`)
)

// abstractText flattens an Abstract element. Each section keeps its Label
// attribute as a "Label:text" prefix when present; sections are joined with
// newlines. Unlabeled free text and the labeled OBJECTIVES/METHODS/RESULTS
// pattern come out the same way.
func abstractText(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, sec := range n.Children("") {
		label := sec.AttrText([]string{"Label"}, "-", false)
		text := sec.MixedText(" ")
		if label != "" {
			text = label + ":" + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

// authorList flattens an AuthorList element into the author roster.
func authorList(n *xmltree.Node) []Author {
	var authors []Author
	for _, node := range n.Children("Author") {
		authors = append(authors, makeAuthor(node))
	}
	return authors
}

func makeAuthor(node *xmltree.Node) Author {
	ids, affs, emails := newStringSet(), newStringSet(), newStringSet()

	var a Author
	if cn := node.ChildText([]string{"CollectiveName"}, " ", false); cn != "" {
		a.FullName = strings.TrimSpace(extractEmails(cn, emails))
	} else {
		a.FullName = node.ChildText([]string{"LastName", "ForeName"}, " ", false)
		a.InitialName = node.ChildText([]string{"LastName", "Initials"}, " ", false)
	}

	// A failure here costs only this author's contact fields; the name
	// fields stand and the rest of the roster is unaffected.
	if err := collectContacts(node, ids, affs, emails); err != nil {
		return a
	}
	a.Identifier = ids.join()
	a.Affiliation = affs.join()
	a.EMail = emails.join()
	return a
}

// collectContacts scans the author's Identifier and AffiliationInfo
// elements. ORCIDs and embedded email addresses are captured into their
// sets and removed from the text they appeared in; what remains of an
// affiliation is split and kept.
func collectContacts(node *xmltree.Node, ids, affs, emails *stringSet) error {
	for _, iden := range node.Children("Identifier") {
		source := iden.AttrText([]string{"Source"}, "-", false)
		value := iden.MixedText(listSep)
		if source == "" || value == "" {
			continue
		}
		rest := extractORCIDs(source+":"+value, ids)
		extractEmails(rest, emails)
	}
	for _, info := range node.Children("AffiliationInfo") {
		aff := info.ChildText([]string{"Affiliation"}, listSep, false)
		aff = extractORCIDs(aff, ids)
		aff = extractEmails(aff, emails)
		splitAffiliations(aff, affs)
	}
	return nil
}

// extractEmails moves email addresses from src into emails and returns src
// with the addresses and any "Electronic address:" label removed.
func extractEmails(src string, emails *stringSet) string {
	for _, m := range emailRe.FindAllString(src, -1) {
		emails.add(emailJunkRe.ReplaceAllString(m, ""))
	}
	src = emailRe.ReplaceAllString(src, "")
	return electronicRe.ReplaceAllString(src, "")
}

// extractORCIDs captures ORCID identifiers in both their bare and URL forms
// as "ORCID:XXXX-XXXX-XXXX-XXXX" entries and returns src with the matched
// spans removed.
func extractORCIDs(src string, ids *stringSet) string {
	for _, m := range orcidURLRe.FindAllStringSubmatch(src, -1) {
		ids.add("ORCID:" + m[1])
	}
	src = orcidURLStripRe.ReplaceAllString(src, "")
	for _, m := range orcidRe.FindAllStringSubmatch(src, -1) {
		ids.add("ORCID:" + m[1])
	}
	return orcidStripRe.ReplaceAllString(src, "")
}

// splitAffiliations breaks residual affiliation text on ';' or '|' and adds
// each part, trimmed of boundary dots and whitespace, to affs.
func splitAffiliations(src string, affs *stringSet) {
	for _, part := range affSplitRe.Split(src, -1) {
		part = affTrimRe.ReplaceAllString(part, "")
		if part == "" {
			continue
		}
		affs.add(part)
	}
}

// grantList renders one "id:agency:country" entry per Grant element.
func grantList(n *xmltree.Node) []string {
	var grants []string
	for _, g := range n.Children("Grant") {
		grants = append(grants, g.ChildText(nil, ":", false))
	}
	return grants
}

// meshHeadingList renders "UID:term" for every descriptor and qualifier of
// every MeshHeading element; a heading with qualifiers contributes several
// entries.
func meshHeadingList(n *xmltree.Node) []string {
	var meshes []string
	for _, mesh := range n.Children("MeshHeading") {
		for _, term := range mesh.Children("") {
			meshes = append(meshes, term.AttrText([]string{"UI"}, "-", false)+":"+term.MixedText(" "))
		}
	}
	return meshes
}

// articleIDList renders "type:value" per ArticleId element.
func articleIDList(n *xmltree.Node) []string {
	var out []string
	for _, aid := range n.Children("ArticleId") {
		out = append(out, articleID(aid))
	}
	return out
}

func articleID(n *xmltree.Node) string {
	return n.AttrText([]string{"IdType"}, "-", false) + ":" + n.MixedText(" ")
}

// referenceList renders "citation(type:value|...)" per Reference element,
// with empty parentheses when the reference carries no identifiers.
// Reference lists nest in the wild, so the scan covers the whole subtree.
func referenceList(n *xmltree.Node) []string {
	var refs []string
	for _, ref := range n.Descendants("Reference") {
		citation := ref.ChildText([]string{"Citation"}, "-", false)
		var ids []string
		if ref.Find("ArticleIdList") != nil {
			for _, aid := range ref.Descendants("ArticleId") {
				ids = append(ids, articleID(aid))
			}
		}
		refs = append(refs, citation+"("+strings.Join(ids, listSep)+")")
	}
	return refs
}
