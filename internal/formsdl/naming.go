package formsdl

import (
	"strconv"
	"strings"
	"unicode"
)

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
}

func pascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return leadingDigit(b.String())
}

func camelCase(s string) string {
	p := pascalCase(s)
	if p == "" || p[0] == '_' {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}

func upperSnake(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToUpper(w)
	}
	return leadingDigit(strings.Join(ws, "_"))
}

func leadingDigit(s string) string {
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		return "_" + s
	}
	return s
}

// unique hands out names, suffixing repeats with 2, 3, ...
type unique map[string]int

func (u unique) name(base string) string {
	u[base]++
	if n := u[base]; n > 1 {
		candidate := base + strconv.Itoa(n)
		for u[candidate] > 0 {
			u[base]++
			candidate = base + strconv.Itoa(u[base])
		}
		u[candidate]++
		return candidate
	}
	return base
}
