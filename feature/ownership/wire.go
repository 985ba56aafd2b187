package ownership

import (
	"pns-snapshot/core/harvest"
	"pns-snapshot/core/utils"
)

type wireChild struct {
	Name      *string `json:"name"`
	CreatedAt any     `json:"createdAt"`
}

type wireAccount struct {
	ID      string      `json:"id"`
	Domains []wireChild `json:"domains"`
}

type accountsData struct {
	Accounts []wireAccount `json:"accounts"`
}

type domainsData struct {
	Owner *struct {
		Domains []wireChild `json:"domains"`
	} `json:"owner"`
}

// child is a decoded domain. Skip marks a record without a name: it still
// counts towards page length but never reaches a snapshot.
type child struct {
	Record harvest.ChildRecord
	Skip   bool
}

// decodeChildren converts wire records. A createdAt that is present but not an
// integer aborts the harvest.
func decodeChildren(family, parentID string, offset int, raw []wireChild) ([]child, error) {
	out := make([]child, 0, len(raw))
	for _, w := range raw {
		ts, ok, err := utils.OptionalInt64(w.CreatedAt)
		if err != nil {
			return nil, &harvest.MalformedRecordError{
				Family:   family,
				ParentID: parentID,
				Offset:   offset,
				Field:    "createdAt",
				Value:    utils.ToString(w.CreatedAt),
				Err:      err,
			}
		}
		if w.Name == nil {
			out = append(out, child{Skip: true})
			continue
		}
		out = append(out, child{Record: harvest.ChildRecord{
			Name:         *w.Name,
			CreatedAt:    ts,
			HasCreatedAt: ok,
		}})
	}
	return out, nil
}
