package snapshot

import (
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/ident"
)

// Assemble normalises rawID to width, keeps the children inside window and
// returns the resulting entity. The boolean is false when no child qualifies,
// in which case the parent is dropped. Identifier width errors propagate.
func Assemble(rawID string, width int, children []harvest.ChildRecord, window harvest.Window) (Entity, bool, error) {
	id, err := ident.Normalize(rawID, width)
	if err != nil {
		return Entity{}, false, err
	}

	kept := make(map[string]*int64, len(children))
	for _, c := range children {
		if !window.Includes(c) {
			continue
		}
		if c.HasCreatedAt {
			kept[c.Name] = Timestamp(c.CreatedAt)
		} else {
			kept[c.Name] = nil
		}
	}
	if len(kept) == 0 {
		return Entity{}, false, nil
	}
	return Entity{ID: id, Children: kept}, true, nil
}
