package domain

// CandidateRecord is one merged entry in a working result set. Records are
// keyed by the channel's numeric ID; merging keeps the maximum similarity
// score and the union of contributing method tags in first-seen order.
type CandidateRecord struct {
	Profile           *ChannelProfile `json:"profile"`
	SimilarityScore   float64         `json:"similarity_score"`
	Methods           []string        `json:"methods"`
	ParticipantsCount int             `json:"participants_count"`
}

// HasMethod reports whether the given method tag already contributed.
func (c *CandidateRecord) HasMethod(method string) bool {
	for _, m := range c.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Merge folds another hit for the same channel into this record. The score
// never decreases; duplicate method tags are skipped.
func (c *CandidateRecord) Merge(score float64, method string) {
	if score > c.SimilarityScore {
		c.SimilarityScore = score
	}
	if !c.HasMethod(method) {
		c.Methods = append(c.Methods, method)
	}
}
