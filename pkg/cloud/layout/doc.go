// Package layout places weighted words on a canvas.
//
// # Algorithm
//
// [Engine.Layout] is a greedy largest-first spiral packer:
//
//  1. Words are sorted by weight (stable) and capped at Config.MaxWords.
//  2. Each word gets a font size from [FontSize], a power law of its weight
//     relative to the heaviest word, clamped to [MinFontSize, MaxFontSize].
//  3. A [Typesetter] rasterizes the word into a [Glyph]: a box plus an ink
//     mask. The first word starts at the canvas centre, later words at a
//     seeded point near it.
//  4. Candidates are walked along an Archimedean spiral scaled to the canvas
//     aspect ratio. A candidate is accepted when its box, grown by
//     Config.Margin, covers no ink already on the canvas (an O(1) lookup in
//     the integral image of the occupancy mask). The walk ends after
//     Config.MaxSpiralSteps or once the spiral has passed every canvas
//     corner.
//  5. A word whose horizontal search is exhausted is retried rotated 90°
//     counter-clockwise; if that fails too it is reported in Result.Dropped.
//
// # Determinism
//
// All randomness (spiral direction, start jitter, word colours) comes from
// one PCG generator seeded with Config.Seed and scoped to the call. The same
// vocabulary and config always produce the same [Result]. Calls share no
// mutable state and may run concurrently.
//
// # Shape masks
//
// A [ShapeMask] restricts placement to the non-white, non-transparent pixels
// of an image, which is scaled to the canvas size.
package layout
