// Package harness verifies a template end to end. Each scenario renders the
// template through a render.Renderer into a scratch directory and then
// checks the result: expected files and content, byte-identical repeated
// renders, and the downstream uv/maturin/sphinx pipelines. Scenarios whose
// external tools are missing return a *SkipError instead of failing.
package harness
