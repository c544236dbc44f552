// Package extract converts raw document bytes into ordered text segments.
//
// Extraction and segmentation are separate, replaceable steps:
//
//   - Extractor turns bytes into plain text (extract/loaders for the
//     production implementation, extract/mock for tests).
//   - Segmenter chunks the text. WordSegmenter (fixed word windows) is the
//     default; SplitterSegmenter is a sentence-boundary-aware alternative.
//
// Both contracts require ordered, non-empty chunks covering the document,
// which is all the retrieval engine depends on.
package extract
