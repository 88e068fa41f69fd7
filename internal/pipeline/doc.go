// Package pipeline turns document markup into a self-contained HTML snapshot
// ready to be loaded into a render surface.
//
// Stages, in order:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML conversion via Goldmark, with an inline math extension
//   - Image URL resolution and enumeration (golang.org/x/net/html)
//   - Snapshot assembly from the embedded template, style sheet and
//     typesetting bootstrap script
//
// Loading the snapshot into a browser and waiting for it to settle is handled
// by the root docshot package. This package never touches a browser.
package pipeline
