// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"regexp"
	"strings"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// arxivSourceName is the journal name Semantic Scholar uses for preprints.
const arxivSourceName = "arxiv"

// arxivURLPatterns match arXiv abstract and PDF URLs. The first captures
// modern IDs ("2101.12345", "2101.12345v2"), the second legacy IDs
// ("hep-th/9901001", "math.AG/0309136v1").
var arxivURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)`),
	regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/([a-z\-]+(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?)`),
}

// ExtractArxivID derives a normalized arXiv identifier from the paper's
// metadata. Sources are tried in order of trust: the arXiv journal entry,
// the landing-page URL, the ArXiv external ID, and finally each alternate
// version URL. It returns "" when no source yields an identifier.
func ExtractArxivID(p *types.Paper) string {
	if p == nil {
		return ""
	}

	if j := p.Journal; j != nil && strings.EqualFold(strings.TrimSpace(j.Name), arxivSourceName) {
		if id := trimArxivPrefix(j.Volume); id != "" {
			return id
		}
	}

	if id := arxivIDFromURL(p.URL); id != "" {
		return id
	}

	if id := trimArxivPrefix(p.ExternalID("ArXiv")); id != "" {
		return id
	}

	for _, v := range p.AlternateVersions {
		if id := arxivIDFromURL(v.URL); id != "" {
			return id
		}
	}
	return ""
}

func arxivIDFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	for _, re := range arxivURLPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// trimArxivPrefix strips the locator prefixes found in journal volumes and
// external IDs ("abs/2101.12345", "arXiv:2101.12345").
func trimArxivPrefix(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "abs/")
	if len(s) >= 6 && strings.EqualFold(s[:6], "arxiv:") {
		s = s[6:]
	}
	return strings.TrimSpace(s)
}
