package service

import (
	"context"
	"encoding/json"
	"examprep_backend/internal/model"
	"examprep_backend/internal/repository"
	"examprep_backend/internal/util"
	"examprep_backend/pkg/logger"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheKeyPrefix = "lesson_catalog:"

// LessonService 课程目录与可见课时列表
type LessonService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	Progress   *ProgressService
	Redis      *redis.Client

	mu       sync.RWMutex
	cacheTTL time.Duration
}

func NewLessonService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	progress *ProgressService,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *LessonService {
	return &LessonService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		Progress:   progress,
		Redis:      rdb,
		cacheTTL:   cacheTTL,
	}
}

// SetCacheTTL 配置热更新时调整目录缓存时长
func (s *LessonService) SetCacheTTL(ttl time.Duration) {
	s.mu.Lock()
	s.cacheTTL = ttl
	s.mu.Unlock()
}

func (s *LessonService) getCacheTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheTTL
}

func (s *LessonService) GetCourses() ([]model.Course, error) {
	return s.CourseRepo.FindAll()
}

func (s *LessonService) GetCourse(slug string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

// GetCatalog 取课程的课时目录，优先走 Redis 缓存
func (s *LessonService) GetCatalog(ctx context.Context, courseSlug string) ([]model.Lesson, error) {
	cacheKey := catalogCacheKeyPrefix + courseSlug

	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var lessons []model.Lesson
			if err := json.Unmarshal([]byte(val), &lessons); err == nil {
				return lessons, nil
			}
		}
	}

	course, err := s.GetCourse(courseSlug)
	if err != nil {
		return nil, err
	}

	lessons, err := s.LessonRepo.FindByCourse(course.ID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(lessons); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, s.getCacheTTL()).Err(); err != nil {
				logger.Log.Warn("failed to cache lesson catalog",
					zap.String("course", courseSlug), zap.Error(err))
			}
		}
	}

	return lessons, nil
}

// InvalidateCatalog 目录变更后使缓存失效
func (s *LessonService) InvalidateCatalog(ctx context.Context, courseSlug string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, catalogCacheKeyPrefix+courseSlug)
}

// ListLessons 推导某用户在某课程下的可见课时列表（搜索 + 状态筛选 + 排序）
func (s *LessonService) ListLessons(ctx context.Context, userID uint, courseSlug, query string, spec model.FilterSpec) ([]model.LessonListItem, error) {
	lessons, err := s.GetCatalog(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LessonCatalogEntry, len(lessons))
	videoURLs := make(map[string]string, len(lessons))
	for i, l := range lessons {
		entries[i] = model.LessonCatalogEntry{
			ID:            l.Slug,
			Title:         l.Title,
			Description:   l.Description,
			DurationLabel: l.DurationLabel,
		}
		videoURLs[l.Slug] = l.VideoURL
	}

	lookup := s.Progress.LookupFor(userID, courseSlug)
	visible := FilterSortLessons(entries, query, spec, lookup)

	items := make([]model.LessonListItem, len(visible))
	for i, entry := range visible {
		rec, ok := lookup(entry.ID)
		items[i] = model.LessonListItem{
			LessonCatalogEntry: entry,
			Status:             ClassifyLesson(rec, ok),
			ProgressPct:        ProgressPercent(rec, ok),
			VideoURL:           videoURLs[entry.ID],
		}
	}
	return items, nil
}

// CreateCourse 新建课程（管理端）
func (s *LessonService) CreateCourse(ctx context.Context, course *model.Course) error {
	return s.CourseRepo.Create(course)
}

// CreateLesson 在课程下新建课时（管理端），时长标签与秒数保持一致
func (s *LessonService) CreateLesson(ctx context.Context, courseSlug string, lesson *model.Lesson) error {
	course, err := s.GetCourse(courseSlug)
	if err != nil {
		return err
	}

	if _, err := s.LessonRepo.FindBySlug(course.ID, lesson.Slug); err == nil {
		return util.ErrLessonExists
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	lesson.CourseID = course.ID
	if lesson.DurationSeconds > 0 && lesson.DurationLabel == "" {
		lesson.DurationLabel = util.FormatDurationLabel(lesson.DurationSeconds)
	} else if lesson.DurationLabel != "" && lesson.DurationSeconds == 0 {
		lesson.DurationSeconds = util.ParseDurationLabel(lesson.DurationLabel)
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return err
	}

	s.InvalidateCatalog(ctx, courseSlug)
	return nil
}
