package parser

import "strings"

// Preprocess prepares raw source for the lexer. Backslash-newline
// continuations are joined, and preprocessor directives other than
// #pragma are blanked out. Every removed or joined line leaves an empty
// line behind so token line numbers keep pointing into the original
// file.
func Preprocess(src string) string {
	lines := strings.Split(src, "\n")
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		joined := 0
		for strings.HasSuffix(line, "\\") && i+1 < len(lines) {
			line = strings.TrimSuffix(line, "\\") + lines[i+1]
			i++
			joined++
		}
		if isDirective(line) && !isPragma(line) {
			line = ""
		}
		out = append(out, line)
		for range joined {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}

func isDirective(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

func isPragma(line string) bool {
	rest := strings.TrimLeft(line, " \t")
	rest = strings.TrimLeft(strings.TrimPrefix(rest, "#"), " \t")
	return strings.HasPrefix(rest, "pragma")
}
