// Package scaffold renders the embedded PyO3 project template without
// copier. The template set lives under templates/pyo3: a copier.yml
// questions file, a JSON Schema for the answers and Go text/template files
// whose paths may themselves be templates. Builtin implements
// render.Renderer and runs the post-generation hook after rendering, the way
// copier runs it as a task.
package scaffold
