// Package messaging defines standard subject names for the message bus.
package messaging

// Subject constants for the message bus.
// Follow the pattern: {domain}.{action}.{resource}
const (
	// Model lifecycle subjects - published by the ml service after a
	// successful train-and-persist. Delivery is best-effort and
	// at-most-once: a lost notification never invalidates the model.
	SubjectModelsTrained = "models.trained"

	// Pipeline subjects - published by the miner when template
	// artifacts are (re)built.
	SubjectArtifactsBuilt = "miner.artifacts.built"
)

// Queue group names for load-balanced consumers.
// Workers in the same queue group share messages (each message processed once).
const (
	QueueRegistryWriters = "registry-writers" // Storage-side model registry consumers
)
