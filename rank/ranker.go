package rank

import (
	"log/slog"
	"sort"

	"github.com/finsight/cardpilot/core"
)

// Ranker scores a query vector against a snapshot's product vectors with
// cosine similarity. The catalog is small (hundreds of items), so scoring is
// an exhaustive linear pass; determinism matters more than asymptotics here.
type Ranker struct {
	logger *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRanker creates a new similarity ranker.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopN ranks the snapshot's products against the query vector and returns up
// to limit candidates ordered by descending similarity. When within is
// non-nil, only products whose ID appears in it are scored (the filter
// engine's output set). Equal scores preserve catalog insertion order.
//
// Fails fast on a dimensionality mismatch between the query vector and any
// scored product vector.
func (r *Ranker) TopN(query []float32, snap *core.Snapshot, within []core.ID, limit int) ([]core.Candidate, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	if len(query) == 0 {
		return nil, ErrEmptyVector
	}

	var allowed map[core.ID]bool
	if within != nil {
		allowed = make(map[core.ID]bool, len(within))
		for _, id := range within {
			allowed[id] = true
		}
	}

	// Walk products in catalog order so the stable sort below breaks score
	// ties by insertion order.
	candidates := make([]core.Candidate, 0, limit)
	for i := range snap.Products {
		product := &snap.Products[i]
		if allowed != nil && !allowed[product.Id] {
			continue
		}

		vector := snap.VectorByID(product.Id)
		if vector == nil {
			r.logger.Warn("product has no vector, skipping", "id", product.Id, "name", product.Name)
			continue
		}

		score, err := CosineSimilarity(query, vector.Vector)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, core.Candidate{
			Product:    *product,
			Score:      score,
			Featured:   product.Featured(),
			BrandGroup: product.BrandGroup(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
