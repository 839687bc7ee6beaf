package models

// JournalEntry records one finished turn of a match.
type JournalEntry struct {
	MatchID string `json:"match_id"`
	// Round counts the finished turns of the match, starting at 1
	Round       int64  `json:"round"`
	Player      int    `json:"player"`
	NextTurn    int    `json:"next_turn"`
	Fingerprint uint64 `json:"fingerprint"`
	Timestamp   int64  `json:"timestamp"`
}
