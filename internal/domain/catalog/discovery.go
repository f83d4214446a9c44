package catalog

import (
	"sort"
	"strings"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/shared/types"
)

// Discover finds catalog services relevant to a free-text query
func (s *Store) Discover(query string, limit int) []*types.Service {
	type scoredService struct {
		service *types.Service
		score   float64
	}

	queryLower := strings.ToLower(query)
	var results []scoredService

	for _, svc := range s.List() {
		score := calculateRelevance(queryLower, svc)
		if score > 0 {
			results = append(results, scoredService{service: svc, score: score})
		}
	}

	// Sort by score descending, ID ascending for stable output
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].service.ID < results[j].service.ID
	})

	// Return top N
	output := make([]*types.Service, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		output = append(output, results[i].service)
	}

	return output
}

func calculateRelevance(query string, svc *types.Service) float64 {
	score := 0.0

	// Check service name and ID
	if strings.Contains(query, strings.ToLower(svc.ID)) ||
		(svc.Name != "" && strings.Contains(query, strings.ToLower(svc.Name))) {
		score += 10.0
	}

	// Check produced parameters
	for _, out := range svc.Outputs {
		if strings.Contains(query, strings.ToLower(out)) {
			score += 5.0
		}
	}

	// Check consumed parameters
	for _, in := range svc.Inputs {
		if strings.Contains(query, strings.ToLower(in)) {
			score += 3.0
		}
	}

	// Check annotated role
	if svc.Annotations != nil && svc.Annotations.Interaction != nil {
		if role := svc.Annotations.Interaction.Role; role != "" && strings.Contains(query, role) {
			score += 2.0
		}
	}

	return score
}
