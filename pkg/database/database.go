package database

import (
	"examprep_backend/internal/config"
	"examprep_backend/internal/model"
	"examprep_backend/internal/util"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ShouldMigrate release 模式默认跳过自动迁移，需要 -migrate 显式开启
func ShouldMigrate(mode string, force bool) bool {
	return force || mode != "release"
}

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.LessonProgress{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认课程目录（为空时插入三门备考课程）
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count == 0 {
		defaultCourses := []model.Course{
			{
				Slug:        "abstract-reasoning",
				Name:        "Abstract Reasoning",
				Description: "图形推理：规律识别与序列补全",
				Lessons: []model.Lesson{
					{Slug: "patterns-intro", Title: "Introduction to Patterns", Description: "Recognising visual sequences", DurationLabel: "08:45", Order: 1},
					{Slug: "rotations", Title: "Rotations and Reflections", Description: "Spatial transformation drills", DurationLabel: "12:30", Order: 2},
					{Slug: "series-completion", Title: "Series Completion", Description: "Completing figure sequences under time pressure", DurationLabel: "10:15", Order: 3},
				},
			},
			{
				Slug:        "mathematics",
				Name:        "Mathematics",
				Description: "数学：代数、几何与数据分析",
				Lessons: []model.Lesson{
					{Slug: "algebraic-expressions", Title: "Algebraic Expressions", Description: "Working with variables", DurationLabel: "09:20", Order: 1},
					{Slug: "fractions-ratios", Title: "Fractions and Ratios", Description: "Proportional reasoning fundamentals", DurationLabel: "11:05", Order: 2},
					{Slug: "geometry-basics", Title: "Geometry Basics", Description: "Angles, areas and perimeters", DurationLabel: "14:40", Order: 3},
				},
			},
			{
				Slug:        "writing",
				Name:        "Writing",
				Description: "写作：结构、论证与表达",
				Lessons: []model.Lesson{
					{Slug: "essay-structure", Title: "Essay Structure", Description: "Introduction, body and conclusion", DurationLabel: "07:50", Order: 1},
					{Slug: "persuasive-writing", Title: "Persuasive Writing", Description: "Building a convincing argument", DurationLabel: "13:25", Order: 2},
				},
			},
		}
		for i := range defaultCourses {
			for j := range defaultCourses[i].Lessons {
				l := &defaultCourses[i].Lessons[j]
				l.DurationSeconds = util.ParseDurationLabel(l.DurationLabel)
			}
			db.Create(&defaultCourses[i])
		}
	}

	return db, nil
}
