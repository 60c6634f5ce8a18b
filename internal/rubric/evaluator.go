package rubric

import (
	"fmt"

	"github.com/starford/vitalis/internal/classify"
	"github.com/starford/vitalis/internal/models"
)

// Evaluator scores notes against one immutable configuration. Safe for
// concurrent use: Evaluate touches no mutable state.
type Evaluator struct {
	cfg        Config
	classifier *classify.ConnectionClassifier
}

// NewEvaluator validates cfg and builds an evaluator. A zero PassingThreshold
// is replaced with the default.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rubric: invalid config: %w", err)
	}
	if cfg.PassingThreshold == 0 {
		cfg.PassingThreshold = DefaultPassingThreshold
	}
	return &Evaluator{
		cfg:        cfg,
		classifier: classify.NewConnectionClassifier(cfg.MOCs, cfg.Projects),
	}, nil
}

// Evaluate scores one note. Missing optional fields contribute 0 to their
// component; the call never fails.
func (e *Evaluator) Evaluate(note models.QualityExtractedNote) models.NVQScore {
	content := note.Content
	if note.MergedContent != "" {
		content = note.MergedContent
	}

	breakdown := models.NVQBreakdown{
		Why:          scoreWhy(note.PurposeStatement, e.cfg.Goals),
		Metadata:     scoreMetadata(&note),
		Taxonomy:     scoreTaxonomy(note.Tags),
		Connectivity: scoreConnectivity(note.Connections, e.classifier),
		Originality:  scoreOriginality(content),
	}

	total := breakdown.Why.Score +
		breakdown.Metadata.Score +
		breakdown.Taxonomy.Score +
		breakdown.Connectivity.Score +
		breakdown.Originality.Score

	var failing []string
	for _, name := range models.ComponentNames {
		if breakdown.ComponentScore(name) == 0 {
			failing = append(failing, name)
		}
	}
	if failing == nil {
		failing = []string{}
	}

	return models.NVQScore{
		Total:             total,
		Breakdown:         breakdown,
		Passing:           total >= e.cfg.PassingThreshold,
		FailingComponents: failing,
	}
}
