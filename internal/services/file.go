package services

import (
	"errors"
	"io"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

// maxUploadSize caps a single file upload at 25 MB.
const maxUploadSize = 25 << 20

// FileService manages a project's shared files: content via Storage,
// metadata in the database.
type FileService struct {
	db      *gorm.DB
	storage Storage
}

func NewFileService(db *gorm.DB, storage Storage) *FileService {
	return &FileService{db: db, storage: storage}
}

// Upload stores the content and records the file with a FILE_UPLOADED
// activity entry.
func (s *FileService) Upload(projectID, uploaderID uint, filename, mimeType string, size int64, content io.Reader) (*models.ProjectFile, error) {
	if filename == "" {
		return nil, response.NewBadRequest("filename is required")
	}
	if size > maxUploadSize {
		return nil, response.NewBadRequest("file exceeds the 25MB upload limit")
	}

	path, url, err := s.storage.Save(projectID, filename, content)
	if err != nil {
		return nil, err
	}

	file := models.ProjectFile{
		ProjectID:    projectID,
		UploadedByID: uploaderID,
		Name:         filename,
		URL:          url,
		Path:         path,
		Size:         size,
		MimeType:     mimeType,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		return RecordActivity(tx, uploaderID, projectID, nil, models.ActionFileUploaded,
			map[string]interface{}{"file_name": file.Name})
	})
	if err != nil {
		s.storage.Remove(path)
		return nil, err
	}

	return &file, nil
}

// List returns a project's files, newest first.
func (s *FileService) List(projectID uint) ([]models.ProjectFile, error) {
	var files []models.ProjectFile
	if err := s.db.Where("project_id = ?", projectID).
		Preload("UploadedBy").
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Delete removes a file's record and its stored content. Only the uploader
// or a privileged member may delete.
func (s *FileService) Delete(projectID, fileID, callerID uint, callerRole models.ProjectRole) error {
	var file models.ProjectFile
	err := s.db.Where("project_id = ?", projectID).First(&file, fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFound("file not found")
	}
	if err != nil {
		return err
	}

	if file.UploadedByID != callerID && !IsPrivileged(callerRole) {
		return response.NewForbidden("you cannot delete this file")
	}

	if err := s.db.Delete(&file).Error; err != nil {
		return err
	}

	// Content cleanup is best effort; the record is already gone.
	s.storage.Remove(file.Path)
	return nil
}
