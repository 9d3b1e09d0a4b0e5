package importer

// ImportRequest carries rows already decoded by the client.
type ImportRequest struct {
	Rows           []Row  `json:"rows" binding:"required,min=1"`
	CreateMissing  bool   `json:"create_missing"`
	UpdateExisting bool   `json:"update_existing"`
	MatchType      string `json:"match_type" binding:"omitempty,oneof=exact fuzzy"`
}

func (r ImportRequest) Options() Options {
	mode, _ := ParseMatchMode(r.MatchType)
	return Options{
		CreateMissing:  r.CreateMissing,
		UpdateExisting: r.UpdateExisting,
		MatchMode:      mode,
	}
}
