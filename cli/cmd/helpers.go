package cmd

import (
	"github.com/loghound-systems/loghound-stack/cli/internal/client"
	"github.com/loghound-systems/loghound-stack/common/sparse"
)

// toSparse strips the per-line metadata off stored vectors, leaving
// the numeric payload the ml service expects.
func toSparse(vectors []client.EventVector) []sparse.Vector {
	out := make([]sparse.Vector, len(vectors))
	for i, v := range vectors {
		out[i] = sparse.Vector{Dim: v.Dim, Indices: v.Indices, Values: v.Values}
	}
	return out
}

func batchSize(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfg.Defaults.BatchSize
}
