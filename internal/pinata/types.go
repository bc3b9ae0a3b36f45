package pinata

// Group is a named collection of pinned content on the gateway; one group
// per location.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserID    string `json:"user_id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// PinnedFile is the gateway's record for one pinned item. Only read here.
type PinnedFile struct {
	IpfsPinHash string       `json:"ipfs_pin_hash"`
	Size        int64        `json:"size"`
	MimeType    string       `json:"mime_type"`
	DatePinned  string       `json:"date_pinned"`
	Metadata    FileMetadata `json:"metadata"`
}

type FileMetadata struct {
	Name string `json:"name"`
}

type pinListResponse struct {
	Count int          `json:"count"`
	Rows  []PinnedFile `json:"rows"`
}

type groupListResponse struct {
	Rows []Group `json:"rows"`
}
