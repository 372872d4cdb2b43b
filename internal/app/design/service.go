package design

import (
	"context"

	"github.com/PabloGalante/lumen-console/internal/domain"
	"github.com/PabloGalante/lumen-console/internal/observability"
)

// Source labels where a suggestion came from.
type Source string

const (
	SourceGemini   Source = "gemini"
	SourceFallback Source = "fallback"
)

// Service produces palette suggestions for the console: the generative model
// when one is configured and parseable, a deterministic on-device transform
// otherwise. The operation never fails.
type Service struct {
	advisor domain.DesignAdvisor // nil when no upstream credential is configured
}

func NewService(advisor domain.DesignAdvisor) *Service {
	return &Service{advisor: advisor}
}

type SuggestOutput struct {
	Suggestion domain.DesignSuggestion
	Source     Source
	Warning    string
}

// Suggest asks the advisor for a schema-constrained palette. When the
// advisor is absent or its answer is unusable, Fallback stands in.
func (s *Service) Suggest(ctx context.Context, profile domain.DesignProfile) *SuggestOutput {
	if s.advisor == nil {
		return &SuggestOutput{
			Suggestion: Fallback(profile),
			Source:     SourceFallback,
		}
	}

	suggestion, err := s.advisor.SuggestPalette(ctx, profile)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("design advisor failed, using fallback", "error", err)
		return &SuggestOutput{
			Suggestion: Fallback(profile),
			Source:     SourceFallback,
			Warning:    "upstream suggestion was unavailable: " + err.Error(),
		}
	}

	return &SuggestOutput{
		Suggestion: *suggestion,
		Source:     SourceGemini,
	}
}

// Fallback derives a suggestion from the current profile alone: a tinted
// accent, slightly deepened background and lifted surface. Deterministic for
// a given profile.
func Fallback(profile domain.DesignProfile) domain.DesignSuggestion {
	radius := profile.CornerRadius + 2
	if radius > 24 {
		radius = 8
	}

	density := "comfortable"
	if profile.Density == "comfortable" {
		density = "compact"
	}

	scale := profile.FontScale
	if scale <= 0 {
		scale = 1.0
	}

	return domain.DesignSuggestion{
		Accent:       Tint(profile.Accent, 0.15),
		Background:   Shade(profile.Background, 0.10),
		Surface:      Tint(profile.Surface, 0.08),
		CornerRadius: radius,
		Density:      density,
		FontScale:    scale,
		Rationale:    "Derived locally from the current palette: softened accent, deeper background, lifted surfaces.",
	}
}
