package models

// EntryImageRelation is a row of the entry_images junction table. The URL is
// either a durable object-storage reference or, transiently, an inline
// data-URL payload awaiting migration.
type EntryImageRelation struct {
	EntryID string `json:"entry_id"`
	URL     string `json:"url"`
	UserID  string `json:"user_id"`
}

// TableName returns the name of the junction table for entry-image relations.
func (r *EntryImageRelation) TableName() string {
	return "entry_images"
}

// RelationPlan is the output of relation diffing: the minimal set of keys to
// insert and relation keys to delete so that the persisted relation rows
// equal the desired set. The two sets are disjoint by construction.
type RelationPlan struct {
	ToInsert []string `json:"to_insert"`
	ToDelete []string `json:"to_delete"`
}

// Empty reports whether the plan requires no work.
func (p RelationPlan) Empty() bool {
	return len(p.ToInsert) == 0 && len(p.ToDelete) == 0
}
