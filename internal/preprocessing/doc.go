// Package preprocessing cleans and aggregates raw household power
// readings for downstream forecasting.
//
// The pipeline is a fixed three-stage transform over a dataset.Frame:
//
//	Raw -> HandleMissingValues -> AggregateData -> RemoveOutliers
//
// Each stage is a pure function from one frame to the next; the input
// is never mutated. Missing-value handling runs first so short gaps
// can be closed at native resolution, aggregation resamples to the
// configured granularity, and outlier removal computes z-scores over
// the aggregated population.
package preprocessing
