package msigview

import (
	"sort"

	"github.com/antelope-tools/msigview/types"
)

// ApprovalEntry is one permission level's standing on a proposal, rendered as
// actor@permission.
type ApprovalEntry struct {
	Level    string `json:"level"`
	Approved bool   `json:"approved"`
}

// AggregateApprovals merges the requested and already-provided approval lists
// into one ordered list: approved entries first, source order preserved
// within each group.
func AggregateApprovals(requested, provided []types.PermissionLevel) []ApprovalEntry {
	entries := make([]ApprovalEntry, 0, len(requested)+len(provided))
	for _, level := range requested {
		entries = append(entries, ApprovalEntry{Level: level.String(), Approved: false})
	}
	for _, level := range provided {
		entries = append(entries, ApprovalEntry{Level: level.String(), Approved: true})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Approved && !entries[j].Approved
	})

	return entries
}
