package service

import (
	"context"
	"examprep_backend/internal/model"
	"examprep_backend/internal/repository"
	"examprep_backend/internal/util"
	"examprep_backend/pkg/logger"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService 课时视频的上传与元数据提取
type ContentService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
	Lessons    *LessonService
}

func NewContentService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	storage *StorageService,
	lessons *LessonService,
) *ContentService {
	return &ContentService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		Storage:    storage,
		Lessons:    lessons,
	}
}

// UploadLessonVideo 上传课时视频：校验 → 探测时长 → 生成缩略图 → 入库
// 课时时长以 ffmpeg 探测结果为准，DurationLabel 随之更新
func (s *ContentService) UploadLessonVideo(ctx context.Context, lessonID uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	isValidExt := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			isValidExt = true
			break
		}
	}
	if !isValidExt {
		return nil, util.ErrInvalidVideoExt
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 深度验证 MIME 类型
	sniffed, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return nil, fmt.Errorf("非法的文件内容: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	// ffmpeg 探测需要本地文件，先落到临时目录
	tmp, err := os.CreateTemp("", "lesson_video_*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		return nil, err
	}

	basename := time.Now().Format("20060102150405") + "_" + model.GenerateUUID()
	videoName := "lessons/" + basename + ext

	// 客户端声明的 Content-Type 不是视频类型时以嗅探结果为准
	contentType := file.Header.Get("Content-Type")
	if !util.IsVideo(contentType) {
		contentType = sniffed
	}

	videoURL, err := s.Storage.UploadFile(ctx, videoName, tmpPath, contentType)
	if err != nil {
		return nil, err
	}

	// 缩略图生成失败不阻塞上传
	thumbnailURL := ""
	thumbTmp := filepath.Join(os.TempDir(), basename+".jpg")
	if err := util.GenerateThumbnail(tmpPath, thumbTmp, "00:00:01"); err != nil {
		logger.Log.Warn("failed to generate thumbnail",
			zap.Uint("lessonID", lessonID), zap.Error(err))
	} else {
		defer os.Remove(thumbTmp)
		thumbnailURL, err = s.Storage.UploadFile(ctx, "thumbnails/"+basename+".jpg", thumbTmp, "image/jpeg")
		if err != nil {
			logger.Log.Warn("failed to upload thumbnail",
				zap.Uint("lessonID", lessonID), zap.Error(err))
			thumbnailURL = ""
		}
	}

	lesson.VideoURL = videoURL
	lesson.ThumbnailURL = thumbnailURL
	lesson.DurationSeconds = info.Duration
	lesson.DurationLabel = util.FormatDurationLabel(info.Duration)

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}

	if course, err := s.CourseRepo.FindByID(lesson.CourseID); err == nil {
		s.Lessons.InvalidateCatalog(ctx, course.Slug)
	}

	return lesson, nil
}
