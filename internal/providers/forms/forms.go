package forms

import (
	"context"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
)

type FormInfo struct {
	FormID       string
	ResponderURL string
}

// Builder publishes a generated quiz to an external forms platform.
type Builder interface {
	CreateQuizForm(ctx context.Context, title, description string, questions []models.MCQ) (FormInfo, error)
}
