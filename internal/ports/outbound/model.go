package outbound

// RecipeModel is the opaque inference capability behind recipe suggestions:
// given an ordered sequence of item identifiers and a decode step, it yields
// the arg-max recipe/order id of the output distribution at that step.
// Implementations must be safe for concurrent use; inference is a pure
// function of its inputs.
type RecipeModel interface {
	// Infer runs one forward pass over items and returns the predicted
	// recipe id at decodeStep (1-based; clamped to the sequence length)
	Infer(items []int, decodeStep int) (int, error)

	// ClassCount reports the size of the model's output id range
	ClassCount() int

	// VocabSize reports the number of item identifiers the model embeds
	VocabSize() int
}

// ModelProvider hands out the shared RecipeModel. The model loads once per
// process; a load failure surfaces per request as a ModelUnavailable error
// rather than crashing the process.
type ModelProvider interface {
	Model() (RecipeModel, error)
}
