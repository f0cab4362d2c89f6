// Package pipeline provides a framework for executing scan steps in sequence.
//
// A scan goes through four stages: fetching the word list, compiling it into
// a pattern, selecting the files under the root, and scanning them. Each stage
// is implemented as a Step that receives the current Run and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It provides consistent error handling and logging across steps
// 2. It supports cancellation via context between steps
// 3. It records which steps completed in the report
// 4. It lets several roots share one fetched word list (see BatchProcessor)
//
// The pipeline supports both a single root and batch processing of several
// roots with concurrency control using errgroup.
package pipeline
