package service

import (
	"examprep_backend/internal/model"
	"examprep_backend/pkg/logger"
	"examprep_backend/pkg/monitoring"
	"sync"

	"go.uber.org/zap"
)

// ProgressPersistence 进度的持久化协作方，内存会话通过它跨进程存活
type ProgressPersistence interface {
	Upsert(p *model.LessonProgress) error
	FindByUser(userID uint) ([]model.LessonProgress, error)
}

// ProgressService 管理所有用户的观看进度会话
// 每个用户一个 ProgressStore，首次访问时从数据库回放，
// 播放 tick 只写内存，完成转变同步落库，其余由后台定期冲刷。
type ProgressService struct {
	Persistence ProgressPersistence

	mu       sync.Mutex
	sessions map[uint]*ProgressStore
}

func NewProgressService(persistence ProgressPersistence) *ProgressService {
	return &ProgressService{
		Persistence: persistence,
		sessions:    make(map[uint]*ProgressStore),
	}
}

// session 取用户的进度会话，不存在则创建并从持久层回放
// 回放查询在锁外执行，一个用户的慢回放不会阻塞其他用户；
// 同一用户并发首次访问时各自回放，注册时以先写入者为准（记录来自同一份落库数据）。
func (s *ProgressService) session(userID uint) *ProgressStore {
	s.mu.Lock()
	if store, ok := s.sessions[userID]; ok {
		s.mu.Unlock()
		return store
	}
	s.mu.Unlock()

	store := s.buildSession(userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[userID]; ok {
		return existing
	}
	s.sessions[userID] = store
	return store
}

// buildSession 创建会话并从持久层回放，不持有服务级锁
func (s *ProgressService) buildSession(userID uint) *ProgressStore {
	var store *ProgressStore
	store = NewProgressStore(func(courseID, lessonID string) {
		monitoring.LessonCompletions.WithLabelValues(courseID).Inc()
		logger.Log.Info("lesson completed",
			zap.Uint("userID", userID),
			zap.String("course", courseID),
			zap.String("lesson", lessonID),
		)
		// 完成转变立即落库，普通 tick 交给后台冲刷
		if rec, ok := store.GetProgress(courseID, lessonID); ok {
			s.persist(userID, ProgressSnapshot{CourseID: courseID, LessonID: lessonID, Record: rec})
		}
	})

	if s.Persistence != nil {
		records, err := s.Persistence.FindByUser(userID)
		if err != nil {
			logger.Log.Error("failed to hydrate progress session",
				zap.Uint("userID", userID), zap.Error(err))
		} else {
			snapshots := make([]ProgressSnapshot, 0, len(records))
			for _, r := range records {
				snapshots = append(snapshots, ProgressSnapshot{
					CourseID: r.CourseSlug,
					LessonID: r.LessonSlug,
					Record: model.ProgressRecord{
						CurrentTime:   r.CurrentTime,
						Duration:      r.Duration,
						Completed:     r.Completed,
						LastWatchedAt: r.LastWatchedAt,
					},
				})
			}
			store.Restore(snapshots)
		}
	}

	return store
}

func (s *ProgressService) persist(userID uint, snap ProgressSnapshot) {
	if s.Persistence == nil {
		return
	}
	err := s.Persistence.Upsert(&model.LessonProgress{
		UserID:        userID,
		CourseSlug:    snap.CourseID,
		LessonSlug:    snap.LessonID,
		CurrentTime:   snap.Record.CurrentTime,
		Duration:      snap.Record.Duration,
		Completed:     snap.Record.Completed,
		LastWatchedAt: snap.Record.LastWatchedAt,
	})
	if err != nil {
		logger.Log.Error("failed to persist progress",
			zap.Uint("userID", userID),
			zap.String("course", snap.CourseID),
			zap.String("lesson", snap.LessonID),
			zap.Error(err),
		)
	}
}

func (s *ProgressService) GetProgress(userID uint, courseSlug, lessonSlug string) (model.ProgressRecord, bool) {
	return s.session(userID).GetProgress(courseSlug, lessonSlug)
}

func (s *ProgressService) UpdateProgress(userID uint, courseSlug, lessonSlug string, in model.ProgressUpdate) model.ProgressRecord {
	monitoring.ProgressUpdates.Inc()
	return s.session(userID).UpdateProgress(courseSlug, lessonSlug, in)
}

func (s *ProgressService) MarkCompleted(userID uint, courseSlug, lessonSlug string) model.ProgressRecord {
	return s.session(userID).MarkCompleted(courseSlug, lessonSlug)
}

// GetLastWatchedVideo 课程内最近交互的课时，页面加载时定位初始课时用
func (s *ProgressService) GetLastWatchedVideo(userID uint, courseSlug string) (string, bool) {
	return s.session(userID).LastWatched(courseSlug)
}

// LookupFor 返回绑定到某用户某课程的进度查询，供筛选排序引擎使用
func (s *ProgressService) LookupFor(userID uint, courseSlug string) ProgressLookup {
	store := s.session(userID)
	return func(lessonID string) (model.ProgressRecord, bool) {
		return store.GetProgress(courseSlug, lessonID)
	}
}

// FlushAll 将所有会话的脏记录落库，由后台定时任务调用
func (s *ProgressService) FlushAll() {
	s.mu.Lock()
	stores := make(map[uint]*ProgressStore, len(s.sessions))
	for userID, store := range s.sessions {
		stores[userID] = store
	}
	s.mu.Unlock()

	for userID, store := range stores {
		for _, snap := range store.TakeDirty() {
			s.persist(userID, snap)
		}
	}
}
