// Package sink renders a [layout.Result] to output formats.
//
//   - [RenderPNG] / [RenderImage]: raster output, glyphs composited from the
//     same typesetter the layout was measured with
//   - [RenderSVG]: vector output with optional embedded font
//   - [RenderPDF]: single-page PDF via tdewolff/canvas
//   - [RenderJSON]: the placed words, re-renderable with [ReadJSON]
//
// Renderers take functional options and never modify the result.
package sink
