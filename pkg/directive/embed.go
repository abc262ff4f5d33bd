package directive

import "embed"

// builtinFS embeds the built-in AsciiDoc directive definitions.
//
//go:embed directives/*.yml
var builtinFS embed.FS
