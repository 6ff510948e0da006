package services

import (
	"context"
	"fmt"

	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/client/models"
	"github.com/mpetrenko/studyport/internal/common"
)

// CatalogService browses the subject/note catalog.
type CatalogService interface {
	Subjects(ctx context.Context) ([]models.Subject, error)
	Notes(ctx context.Context, subjectID string) ([]models.Note, error)
	Note(ctx context.Context, noteID string) (*models.Note, error)
}

type catalogService struct {
	client api.Client
}

func NewCatalogService(client api.Client) CatalogService {
	return &catalogService{client: client}
}

func (c *catalogService) Subjects(ctx context.Context) ([]models.Subject, error) {
	return c.client.Subjects(ctx)
}

func (c *catalogService) Notes(ctx context.Context, subjectID string) ([]models.Note, error) {
	return c.client.Notes(ctx, subjectID)
}

// Note resolves a single note by id from the full listing. The API has no
// dedicated note-by-id endpoint for students.
func (c *catalogService) Note(ctx context.Context, noteID string) (*models.Note, error) {
	notes, err := c.client.Notes(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == noteID {
			return &notes[i], nil
		}
	}
	return nil, fmt.Errorf("note %q: %w", noteID, common.ErrNotFound)
}
