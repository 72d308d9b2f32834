package models

// InviteLink is a tracked personal invite link inside a chat. Joins through it
// are credited to the creator.
type InviteLink struct {
	CreatorID int64 `json:"creator_id"`
	Revoked   bool  `json:"revoked"`
}

// ContestRecord is the full contest state of one chat. Score keys are user ids
// rendered as decimal strings, matching the on-disk state file format.
type ContestRecord struct {
	Active          bool                   `json:"active"`
	EndTS           int64                  `json:"end_ts"`
	Scores          map[string]int         `json:"scores"`
	PinnedMessageID int64                  `json:"pinned_message_id,omitempty"`
	Links           map[string]*InviteLink `json:"links"`
}

func NewContestRecord() *ContestRecord {
	return &ContestRecord{
		Scores: make(map[string]int),
		Links:  make(map[string]*InviteLink),
	}
}

// Reset clears scores and links for a fresh contest run. The pinned message id
// survives so the existing pinned leaderboard gets edited in place.
func (r *ContestRecord) Reset() {
	r.Scores = make(map[string]int)
	r.Links = make(map[string]*InviteLink)
}

// Clone returns a deep copy. Snapshots handed to callers must not alias the
// live maps; those keep changing under the state manager's lock.
func (r *ContestRecord) Clone() ContestRecord {
	out := *r
	out.Scores = make(map[string]int, len(r.Scores))
	for k, v := range r.Scores {
		out.Scores[k] = v
	}
	out.Links = make(map[string]*InviteLink, len(r.Links))
	for k, v := range r.Links {
		link := *v
		out.Links[k] = &link
	}
	return out
}
