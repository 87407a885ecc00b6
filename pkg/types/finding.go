package types

import (
	"cmp"
	"slices"
)

// Finding groups the matches of one entity.
type Finding struct {
	EntityID  string   `json:"entity_id"`
	Names     []string `json:"names"` // distinct matched texts, in first-seen order
	Documents int      `json:"documents"`
	Matches   []*Match `json:"-"`
}

// GroupByEntity builds one Finding per entity id. A match carrying several
// ids contributes to each of them. Findings are ordered by match count,
// then id.
func GroupByEntity(matches []*Match) []*Finding {
	byID := make(map[string]*Finding)
	docs := make(map[string]map[DocumentID]struct{})
	for _, m := range matches {
		for _, id := range m.EntityIDs {
			f, ok := byID[id]
			if !ok {
				f = &Finding{EntityID: id}
				byID[id] = f
				docs[id] = make(map[DocumentID]struct{})
			}
			f.Matches = append(f.Matches, m)
			if !slices.Contains(f.Names, m.Text()) {
				f.Names = append(f.Names, m.Text())
			}
			docs[id][m.DocumentID] = struct{}{}
		}
	}

	findings := make([]*Finding, 0, len(byID))
	for id, f := range byID {
		f.Documents = len(docs[id])
		findings = append(findings, f)
	}
	slices.SortFunc(findings, func(a, b *Finding) int {
		if c := cmp.Compare(len(b.Matches), len(a.Matches)); c != 0 {
			return c
		}
		return cmp.Compare(a.EntityID, b.EntityID)
	})
	return findings
}
