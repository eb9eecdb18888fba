package service

import (
	"examprep_backend/internal/model"
	"examprep_backend/pkg/logger"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeProgressPersistence struct {
	mu       sync.Mutex
	records  map[string]model.LessonProgress
	upserts  int
	findErr  error
	findHook func(userID uint) // 进入 FindByUser 时调用，锁外执行
}

func newFakePersistence() *fakeProgressPersistence {
	return &fakeProgressPersistence{records: make(map[string]model.LessonProgress)}
}

func (f *fakeProgressPersistence) Upsert(p *model.LessonProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.records[p.CourseSlug+"/"+p.LessonSlug] = *p
	return nil
}

func (f *fakeProgressPersistence) FindByUser(userID uint) ([]model.LessonProgress, error) {
	if f.findHook != nil {
		f.findHook(userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]model.LessonProgress, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeProgressPersistence) get(course, lesson string) (model.LessonProgress, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[course+"/"+lesson]
	return r, ok
}

func (f *fakeProgressPersistence) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

func TestProgressService_SessionsAreIsolated(t *testing.T) {
	svc := NewProgressService(newFakePersistence())

	svc.UpdateProgress(1, "math", "a", model.ProgressUpdate{CurrentTime: 10, Duration: 100})

	_, ok := svc.GetProgress(2, "math", "a")
	assert.False(t, ok, "用户之间的进度互不可见")

	rec, ok := svc.GetProgress(1, "math", "a")
	require.True(t, ok)
	assert.Equal(t, 10.0, rec.CurrentTime)
}

func TestProgressService_TicksAreWriteBehind(t *testing.T) {
	fake := newFakePersistence()
	svc := NewProgressService(fake)

	// 普通 tick 只写内存
	svc.UpdateProgress(1, "math", "a", model.ProgressUpdate{CurrentTime: 10, Duration: 100})
	svc.UpdateProgress(1, "math", "a", model.ProgressUpdate{CurrentTime: 20, Duration: 100})
	assert.Equal(t, 0, fake.upsertCount())

	// 冲刷后落库，且同键只有一条
	svc.FlushAll()
	assert.Equal(t, 1, fake.upsertCount())
	rec, ok := fake.get("math", "a")
	require.True(t, ok)
	assert.Equal(t, 20.0, rec.CurrentTime)

	// 没有新变更时冲刷不产生写入
	svc.FlushAll()
	assert.Equal(t, 1, fake.upsertCount())
}

func TestProgressService_CompletionPersistsImmediately(t *testing.T) {
	fake := newFakePersistence()
	svc := NewProgressService(fake)

	svc.UpdateProgress(1, "math", "a", model.ProgressUpdate{CurrentTime: 95, Duration: 100})

	rec, ok := fake.get("math", "a")
	require.True(t, ok, "完成转变应当同步落库")
	assert.True(t, rec.Completed)
	assert.Equal(t, uint(1), rec.UserID)
}

func TestProgressService_HydratesFromPersistence(t *testing.T) {
	fake := newFakePersistence()
	fake.records["math/a"] = model.LessonProgress{
		UserID: 1, CourseSlug: "math", LessonSlug: "a",
		CurrentTime: 120, Duration: 525, LastWatchedAt: time.Now(),
	}

	svc := NewProgressService(fake)

	rec, ok := svc.GetProgress(1, "math", "a")
	require.True(t, ok)
	assert.Equal(t, 120.0, rec.CurrentTime)
	assert.Equal(t, 525.0, rec.Duration)

	last, ok := svc.GetLastWatchedVideo(1, "math")
	require.True(t, ok)
	assert.Equal(t, "a", last)
}

func TestProgressService_LookupForFeedsFilter(t *testing.T) {
	svc := NewProgressService(newFakePersistence())
	svc.UpdateProgress(1, "math", "l2", model.ProgressUpdate{CurrentTime: 30, Duration: 750})

	lookup := svc.LookupFor(1, "math")

	rec, ok := lookup("l2")
	require.True(t, ok)
	assert.Equal(t, model.StatusInProgress, ClassifyLesson(rec, ok))

	_, ok = lookup("l1")
	assert.False(t, ok)
}

func TestProgressService_SlowHydrationDoesNotBlockOtherUsers(t *testing.T) {
	fake := newFakePersistence()
	entered := make(chan struct{})
	release := make(chan struct{})
	fake.findHook = func(userID uint) {
		if userID == 1 {
			close(entered)
			<-release
		}
	}
	svc := NewProgressService(fake)

	user1Done := make(chan struct{})
	go func() {
		svc.GetProgress(1, "math", "a")
		close(user1Done)
	}()
	<-entered

	// 用户 1 的回放查询挂起时，用户 2 的首次访问不应被拖住
	user2Done := make(chan struct{})
	go func() {
		svc.GetProgress(2, "math", "a")
		close(user2Done)
	}()

	select {
	case <-user2Done:
	case <-time.After(2 * time.Second):
		t.Fatal("另一个用户的会话创建被慢回放阻塞")
	}

	close(release)
	<-user1Done
}

func TestProgressService_ConcurrentFirstAccessSharesSession(t *testing.T) {
	svc := NewProgressService(newFakePersistence())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.UpdateProgress(1, "math", "a", model.ProgressUpdate{CurrentTime: 10, Duration: 100})
		}()
	}
	wg.Wait()

	// 并发首次访问收敛到同一个会话，写入不会落到被丢弃的副本上
	rec, ok := svc.GetProgress(1, "math", "a")
	require.True(t, ok)
	assert.Equal(t, 10.0, rec.CurrentTime)
}

func TestProgressService_MarkCompletedPersists(t *testing.T) {
	fake := newFakePersistence()
	svc := NewProgressService(fake)

	svc.UpdateProgress(1, "math", "a", model.ProgressUpdate{CurrentTime: 30, Duration: 100})
	svc.MarkCompleted(1, "math", "a")

	rec, ok := fake.get("math", "a")
	require.True(t, ok)
	assert.True(t, rec.Completed)
	assert.Equal(t, 30.0, rec.CurrentTime)

	// 重复标记不再触发写入
	before := fake.upsertCount()
	svc.MarkCompleted(1, "math", "a")
	assert.Equal(t, before, fake.upsertCount())
}
