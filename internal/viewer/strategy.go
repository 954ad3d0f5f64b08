package viewer

import (
	"context"

	"learnhub/database/models"
)

// Strategy renders one content kind.
type Strategy interface {
	Render(ctx context.Context, v *View) error
}

func StrategyFor(kind models.Kind) Strategy {
	switch kind {
	case models.KindDocument:
		return Document{}
	case models.KindQuiz:
		return Quiz{}
	case models.KindVideo:
		return Video{}
	case models.KindOpaque:
		return Opaque{}
	case models.KindPage:
		return Page{}
	case models.KindUnknown:
		return Fallback{}
	default:
		return None{}
	}
}
