package model

// Course 课程（如 mathematics、writing），是一组视频课时的集合
// swagger:model Course
type Course struct {
	BaseModel
	Slug        string   `gorm:"size:100;uniqueIndex;not null" json:"slug"` // 课程标识，进度记录以此为键
	Name        string   `gorm:"size:200;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Lesson 视频课时，Slug 在课程内唯一
// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID        uint    `gorm:"index:idx_course_lesson,unique;not null" json:"courseId"`
	Slug            string  `gorm:"size:100;index:idx_course_lesson,unique;not null" json:"slug"`
	Title           string  `gorm:"size:200;not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	DurationSeconds float64 `gorm:"default:0" json:"durationSeconds"` // 视频真实时长，上传探测后写入
	DurationLabel   string  `gorm:"size:16" json:"durationLabel"`     // mm:ss 展示用
	VideoURL        string  `gorm:"size:255" json:"videoUrl"`
	ThumbnailURL    string  `gorm:"size:255" json:"thumbnailUrl"`
	Order           int     `gorm:"default:0" json:"order"` // 目录内顺序
}

func (Lesson) TableName() string {
	return "lessons"
}
