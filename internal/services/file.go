package services

import (
	"context"

	"github.com/classhub/gateway/types"
)

// FileRepository defines persistence operations for file records.
type FileRepository interface {
	List(ctx context.Context) ([]types.File, error)
	ListByClass(ctx context.Context, classID int) ([]types.File, error)
	GetByOwnerAndName(ctx context.Context, userID int, filename string) (types.File, error)
	Create(ctx context.Context, file types.File) (types.File, error)
	Delete(ctx context.Context, id int) error
}

// FileService encapsulates file-record use-cases.
type FileService struct {
	repo FileRepository
}

func NewFileService(repo FileRepository) *FileService {
	return &FileService{repo: repo}
}

func (s *FileService) List(ctx context.Context) ([]types.File, error) {
	return s.repo.List(ctx)
}

func (s *FileService) ListByClass(ctx context.Context, classID int) ([]types.File, error) {
	return s.repo.ListByClass(ctx, classID)
}

func (s *FileService) GetByOwnerAndName(ctx context.Context, userID int, filename string) (types.File, error) {
	return s.repo.GetByOwnerAndName(ctx, userID, filename)
}

func (s *FileService) Create(ctx context.Context, file types.File) (types.File, error) {
	return s.repo.Create(ctx, file)
}

// DeleteOwned removes a file record only when it belongs to ownerID.
func (s *FileService) DeleteOwned(ctx context.Context, ownerID int, filename string) (types.File, error) {
	file, err := s.repo.GetByOwnerAndName(ctx, ownerID, filename)
	if err != nil {
		return types.File{}, err
	}
	if err := s.repo.Delete(ctx, file.ID); err != nil {
		return types.File{}, err
	}
	return file, nil
}
