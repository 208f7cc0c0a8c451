package types

type TableName string

func (t TableName) Name() string {
	return string(t)
}

const (
	TABLE_USER               = TableName("users")
	TABLE_WORKSPACE          = TableName("workspaces")
	TABLE_GROUP              = TableName("groups")
	TABLE_MEMBERSHIP         = TableName("memberships")
	TABLE_ASSIGNMENT         = TableName("assignments")
	TABLE_QUESTION           = TableName("questions")
	TABLE_REVIEW             = TableName("reviews")
	TABLE_RATING             = TableName("ratings")
	TABLE_ANALYTICS          = TableName("analytics")
	TABLE_JOURNAL_ASSIGNMENT = TableName("journal_assignments")
	TABLE_JOURNAL_ENTRY      = TableName("journal_entries")
)
