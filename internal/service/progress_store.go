package service

import (
	"examprep_backend/internal/model"
	"math"
	"sync"
	"time"
)

type progressKey struct {
	courseID string
	lessonID string
}

type progressEntry struct {
	record model.ProgressRecord
	seq    uint64 // 全局递增的交互序号，续播定位以此为准
	dirty  bool
}

// ProgressSnapshot 脏记录快照，交给持久化协作方落库
type ProgressSnapshot struct {
	CourseID string
	LessonID string
	Record   model.ProgressRecord
}

// ProgressStore 单个用户会话的观看进度存储
// 以 (courseID, lessonID) 为键，每对键只保留一条记录，
// 播放器每秒多次上报也不会膨胀。多协程访问由内部互斥锁串行化，
// 同键写入保持调用顺序（last write wins）。
type ProgressStore struct {
	mu         sync.RWMutex
	records    map[progressKey]*progressEntry
	seq        uint64
	onComplete func(courseID, lessonID string)
}

// NewProgressStore 创建会话存储，onComplete 在记录首次变为完成时回调（可为 nil）
func NewProgressStore(onComplete func(courseID, lessonID string)) *ProgressStore {
	return &ProgressStore{
		records:    make(map[progressKey]*progressEntry),
		onComplete: onComplete,
	}
}

// IsComplete 完成规则：时长已知且观看比例超过 90%
// duration 为 0（元数据未加载）恒为未完成，不会除零
func IsComplete(currentTime, duration float64) bool {
	if !(duration > 0) {
		return false
	}
	return currentTime/duration > 0.9
}

// sanitizeSeconds NaN 和负数一律按 0 处理，播放器的瞬时异常不应报错
func sanitizeSeconds(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// GetProgress 读取某课时的进度，不存在即未开始
func (s *ProgressStore) GetProgress(courseID, lessonID string) (model.ProgressRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.records[progressKey{courseID, lessonID}]
	if !ok {
		return model.ProgressRecord{}, false
	}
	return e.record, true
}

// UpdateProgress 处理一次播放进度上报
// 完成规则在截断前的原始输入上求值（见测试），currentTime 截断到 [0, duration] 再存储；
// completed 一旦为真不会被后续时间上报翻转；显式传入 completed 时跳过规则推导。
func (s *ProgressStore) UpdateProgress(courseID, lessonID string, in model.ProgressUpdate) model.ProgressRecord {
	t := sanitizeSeconds(in.CurrentTime)
	d := sanitizeSeconds(in.Duration)

	s.mu.Lock()

	key := progressKey{courseID, lessonID}
	e, ok := s.records[key]
	if !ok {
		e = &progressEntry{}
		s.records[key] = e
	}

	wasCompleted := e.record.Completed

	completed := e.record.Completed
	if in.Completed != nil {
		completed = completed || *in.Completed
	} else {
		completed = completed || IsComplete(t, d)
	}

	if d > 0 && t > d {
		t = d
	}

	e.record.CurrentTime = t
	e.record.Duration = d
	e.record.Completed = completed
	e.record.LastWatchedAt = time.Now()
	e.dirty = true
	s.seq++
	e.seq = s.seq

	rec := e.record
	s.mu.Unlock()

	if completed && !wasCompleted && s.onComplete != nil {
		s.onComplete(courseID, lessonID)
	}
	return rec
}

// MarkCompleted 播放结束事件：无条件置为完成，不改动时间和时长
// 幂等：已完成的记录不再变化
func (s *ProgressStore) MarkCompleted(courseID, lessonID string) model.ProgressRecord {
	s.mu.Lock()

	key := progressKey{courseID, lessonID}
	e, ok := s.records[key]
	if !ok {
		e = &progressEntry{}
		s.records[key] = e
	}

	if e.record.Completed {
		rec := e.record
		s.mu.Unlock()
		return rec
	}

	e.record.Completed = true
	e.record.LastWatchedAt = time.Now()
	e.dirty = true
	s.seq++
	e.seq = s.seq

	rec := e.record
	s.mu.Unlock()

	if s.onComplete != nil {
		s.onComplete(courseID, lessonID)
	}
	return rec
}

// LastWatched 返回课程内最近交互的课时，用于"继续上次观看"
// 交互序号严格递增，相同时间戳的并列由插入顺序决定，结果是确定的
func (s *ProgressStore) LastWatched(courseID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best    string
		bestSeq uint64
		found   bool
	)
	for key, e := range s.records {
		if key.courseID != courseID {
			continue
		}
		if !found || e.seq > bestSeq {
			best = key.lessonID
			bestSeq = e.seq
			found = true
		}
	}
	return best, found
}

// TakeDirty 取出自上次落库以来变更过的记录并清除脏标记
func (s *ProgressStore) TakeDirty() []ProgressSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ProgressSnapshot
	for key, e := range s.records {
		if !e.dirty {
			continue
		}
		e.dirty = false
		out = append(out, ProgressSnapshot{
			CourseID: key.courseID,
			LessonID: key.lessonID,
			Record:   e.record,
		})
	}
	return out
}

// Restore 用持久化记录回放会话，按传入顺序分配交互序号
// 调用方需按最后观看时间升序传入，续播定位才与落库前一致
func (s *ProgressStore) Restore(snapshots []ProgressSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		key := progressKey{snap.CourseID, snap.LessonID}
		s.seq++
		s.records[key] = &progressEntry{
			record: snap.Record,
			seq:    s.seq,
		}
	}
}
