package pipeline

import (
	"context"
	"log"
)

// GenerateBatch runs the pipeline once per request, in order. Failures are
// isolated per item: every request yields exactly one outcome and a failing
// clip never prevents generation of the remaining clips.
func (g *Generator) GenerateBatch(ctx context.Context, requests []ClipRequest) []BatchItemOutcome {
	outcomes := make([]BatchItemOutcome, 0, len(requests))

	for i, req := range requests {
		log.Printf("[%d/%d] Generating clip %s", i+1, len(requests), req.ClipID)

		result, err := g.Generate(ctx, req)
		if err != nil {
			log.Printf("Failed to generate clip %s: %v", req.ClipID, err)
			outcomes = append(outcomes, BatchItemOutcome{
				Success: false,
				ClipID:  req.ClipID,
				Error:   err.Error(),
			})
			continue
		}

		outcomes = append(outcomes, BatchItemOutcome{
			Success: true,
			ClipID:  req.ClipID,
			Result:  result,
		})
	}

	return outcomes
}
