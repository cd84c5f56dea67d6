package files

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the type of a file record.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindImage  Kind = "image"
)

// ParseKind accepts only the known kinds.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindFolder, KindFile, KindImage:
		return k, true
	}
	return "", false
}

// RootParentID marks records at the top of an owner's tree.
const RootParentID = ""

// Record is the stored metadata of a file, image or folder.
type Record struct {
	ID       string
	OwnerID  string
	Name     string
	Kind     Kind
	IsPublic bool
	// ParentID is RootParentID or the id of a folder of the same owner.
	ParentID string
	// BlobPath locates the content. Folders have none.
	BlobPath string
}

// View is the public projection of a Record.
type View struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Type     Kind      `json:"type"`
	IsPublic bool      `json:"isPublic"`
	ParentID ParentRef `json:"parentId"`
}

func (r Record) View() View {
	return View{
		ID:       r.ID,
		UserID:   r.OwnerID,
		Name:     r.Name,
		Type:     r.Kind,
		IsPublic: r.IsPublic,
		ParentID: ParentRef(r.ParentID),
	}
}

// ParentRef is a parent id on the wire: the number 0 for the root and a
// string otherwise. Decoding also accepts "0", "", null and other numbers.
type ParentRef string

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p == RootParentID {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = RootParentID
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParentRef(ParseParent(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = ParentRef(ParseParent(n.String()))
	return nil
}

// ParseParent maps a raw parent reference to a parent id. Absent or "0"
// means the root.
func ParseParent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RootParentID
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && n == 0 {
		return RootParentID
	}
	return raw
}
