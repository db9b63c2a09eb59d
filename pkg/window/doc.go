// Package window implements windowing constructs. In the world of data processing on an unbounded stream, Windowing
// is a concept of grouping data using temporal boundaries. We use event-time to discover temporal boundaries on an
// unbounded, infinite stream and Watermark to ensure the datasets within the boundaries are complete. A reduce function
// is applied on this group of data to produce a single representative event per window.
//
// Only Fixed windows (sometimes called tumbling windows) are supported. Windows are keyed, i.e. every key owns its own
// set of windows and the windows of a key are sealed by the watermark of that key.
//
// Window boundaries are aligned to the unix epoch: an event at time t belongs to the window starting at
// floor(t/length)*length, which is left inclusive and right exclusive.
package window
