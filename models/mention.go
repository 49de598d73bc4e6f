package models

// Mention links a comment to a user referenced with @ syntax. The composite
// unique index keeps duplicate parses from creating duplicate rows.
type Mention struct {
	Model
	CommentID       uint `json:"comment_id" gorm:"not null;uniqueIndex:idx_mentions_comment_user"`
	MentionedUserID uint `json:"mentioned_user_id" gorm:"not null;uniqueIndex:idx_mentions_comment_user"`
}
