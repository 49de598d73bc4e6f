package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clockwisehq/clockwise/models"
)

// MentionRepository persists comment -> user mention links.
type MentionRepository interface {
	CreateMentions(mentions []models.Mention) (int64, error)
	ListForComment(commentID uint) ([]models.Mention, error)
	DeleteForComment(commentID uint) (int64, error)
}

// mentionRepo struct
type mentionRepo struct {
	DB *gorm.DB
}

// NewMentionRepo creates a new instance of MentionRepository
func NewMentionRepo(db *GormDB) MentionRepository {
	return &mentionRepo{db.DB}
}

// CreateMentions inserts the batch, silently skipping pairs that already
// exist; the unique (comment_id, mentioned_user_id) index does the dedup.
// Returns the number of rows actually inserted.
func (r *mentionRepo) CreateMentions(mentions []models.Mention) (int64, error) {
	if len(mentions) == 0 {
		return 0, nil
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&mentions)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "storing mentions")
	}
	return result.RowsAffected, nil
}

func (r *mentionRepo) ListForComment(commentID uint) ([]models.Mention, error) {
	var mentions []models.Mention
	if err := r.DB.Where("comment_id = ?", commentID).Find(&mentions).Error; err != nil {
		return nil, errors.Wrap(err, "listing mentions")
	}
	return mentions, nil
}

func (r *mentionRepo) DeleteForComment(commentID uint) (int64, error) {
	result := r.DB.Unscoped().
		Where("comment_id = ?", commentID).
		Delete(&models.Mention{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "deleting mentions")
	}
	return result.RowsAffected, nil
}
