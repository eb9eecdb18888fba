package model

import (
	"time"
)

// ProgressRecord 单个课时的观看状态（内存态）
type ProgressRecord struct {
	CurrentTime   float64   `json:"currentTime"`
	Duration      float64   `json:"duration"` // 0 表示时长未知（元数据未加载）
	Completed     bool      `json:"completed"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}

// ProgressUpdate 播放器每个 timeupdate tick 上报的载荷
// Completed 缺省时由完成规则推导
type ProgressUpdate struct {
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Completed   *bool   `json:"completed,omitempty"`
}

// LessonProgress 观看进度的持久化镜像，(user, course, lesson) 唯一
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID        uint      `gorm:"index:idx_user_course_lesson,unique;not null" json:"userId"`
	CourseSlug    string    `gorm:"size:100;index:idx_user_course_lesson,unique;not null" json:"courseSlug"`
	LessonSlug    string    `gorm:"size:100;index:idx_user_course_lesson,unique;not null" json:"lessonSlug"`
	CurrentTime   float64   `gorm:"default:0" json:"currentTime"`
	Duration      float64   `gorm:"default:0" json:"duration"`
	Completed     bool      `gorm:"default:false" json:"completed"`
	LastWatchedAt time.Time `json:"lastWatchedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// LessonCatalogEntry 目录条目，筛选排序引擎的只读输入
type LessonCatalogEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationLabel string `json:"durationLabel"` // mm:ss
}

// LessonStatus 课时状态桶，三者互斥
type LessonStatus string

const (
	StatusCompleted  LessonStatus = "completed"
	StatusInProgress LessonStatus = "in_progress"
	StatusNotStarted LessonStatus = "not_started"
)

type SortKey string

const (
	SortByTitle    SortKey = "title"
	SortByDuration SortKey = "duration"
	SortByProgress SortKey = "progress"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterSpec 课时列表的筛选与排序指令
// 三个状态开关相互独立，课时命中任一开启的桶即保留
type FilterSpec struct {
	Completed  bool      `json:"completed"`
	InProgress bool      `json:"inProgress"`
	NotStarted bool      `json:"notStarted"`
	SortBy     SortKey   `json:"sortBy"`
	SortOrder  SortOrder `json:"sortOrder"`
}

// LessonListItem 侧边栏列表项：目录条目附加进度信息
type LessonListItem struct {
	LessonCatalogEntry
	Status      LessonStatus `json:"status"`
	ProgressPct float64      `json:"progressPct"` // 0-100
	VideoURL    string       `json:"videoUrl,omitempty"`
}
