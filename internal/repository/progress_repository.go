package repository

import (
	"examprep_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 写入单条观看进度，(user, course, lesson) 已存在则覆盖
func (r *ProgressRepository) Upsert(p *model.LessonProgress) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.LessonProgress
		err := tx.Where("user_id = ? AND course_slug = ? AND lesson_slug = ?",
			p.UserID, p.CourseSlug, p.LessonSlug).First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}

		existing.CurrentTime = p.CurrentTime
		existing.Duration = p.Duration
		existing.Completed = p.Completed
		existing.LastWatchedAt = p.LastWatchedAt
		return tx.Save(&existing).Error
	})
}

// FindByUser 返回用户的全部进度记录，按最后观看时间升序
// 升序回放可以让内存会话的插入顺序与交互顺序一致
func (r *ProgressRepository) FindByUser(userID uint) ([]model.LessonProgress, error) {
	var records []model.LessonProgress
	err := r.DB.Where("user_id = ?", userID).
		Order("last_watched_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindByUserAndCourse(userID uint, courseSlug string) ([]model.LessonProgress, error) {
	var records []model.LessonProgress
	err := r.DB.Where("user_id = ? AND course_slug = ?", userID, courseSlug).
		Order("last_watched_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

// CountCompletedByCourse 统计课程的完成人次，供后台分析使用
func (r *ProgressRepository) CountCompletedByCourse(courseSlug string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("course_slug = ? AND completed = ?", courseSlug, true).
		Count(&count).Error
	return count, err
}
