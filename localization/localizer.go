// Package localization resolves game localization keys to display text.
package localization

import "strings"

// Localizer resolves localization keys to display text. Keys with no
// loaded entry fall back to a demangled spelling of the key itself, so
// a Localizer works, degraded, without any game data at all.
//
// A Localizer is not safe for concurrent mutation; finish loading
// before sharing it.
type Localizer struct {
	data map[string]string
}

// New creates an empty localizer.
func New() *Localizer {
	return &Localizer{data: make(map[string]string)}
}

// Len returns the number of loaded entries.
func (l *Localizer) Len() int { return len(l.data) }

// Lookup returns the raw entry for key.
func (l *Localizer) Lookup(key string) (string, bool) {
	v, ok := l.data[key]
	return v, ok
}

// Localize returns the display text for key, or the demangled key when
// no entry exists.
func (l *Localizer) Localize(key string) string {
	if v, ok := l.data[key]; ok {
		return v
	}
	return demangle(key)
}

// AddSource scans one localization file. The files wear a yml
// extension but are not YAML; the scanner the format actually needs
// reads a key up to the first colon and takes as its value whatever
// sits in double quotes, dropping everything else on the line. The
// version digit between colon and value falls out naturally.
func (l *Localizer) AddSource(contents []byte) {
	var key, value []byte
	past, quoted := false, false
	flush := func() {
		if past && !quoted && len(value) > 0 {
			l.data[string(key)] = string(value)
		}
		key, value = key[:0], value[:0]
		past, quoted = false, false
	}
	for i := 0; i < len(contents); i++ {
		switch b := contents[i]; b {
		case ' ', '\t':
			if quoted {
				value = append(value, b)
			}
		case '\n':
			flush()
		case ':':
			if quoted {
				value = append(value, b)
			} else {
				past = true
			}
		case '"':
			quoted = !quoted
		default:
			if past {
				if quoted {
					value = append(value, b)
				}
			} else {
				key = append(key, b)
			}
		}
	}
	flush()
}

// RemoveFormatting strips the markup runs from every loaded entry.
// Call it once after loading.
func (l *Localizer) RemoveFormatting() {
	for key, value := range l.data {
		l.data[key] = stripFormatting(value)
	}
}

// stripFormatting drops `#tag … #!` markup runs and the `|format`
// channel inside bracketed scopes. Template references themselves
// ($key$, [Function]) pass through untouched.
func stripFormatting(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	var markup, scoped bool
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '#':
			if markup {
				markup = false
				if i+1 < len(runes) {
					i++
					if runes[i] != '!' {
						out = append(out, runes[i])
					}
				}
			} else {
				markup = true
				// The tag word ends at the first space.
				for i+1 < len(runes) {
					i++
					if runes[i] == ' ' {
						break
					}
				}
			}
		case '$':
			scoped = !scoped
			out = append(out, c)
		case '[':
			scoped = true
			out = append(out, c)
		case ']':
			scoped = false
			out = append(out, c)
		case '|':
			if scoped {
				for i+1 < len(runes) {
					i++
					if runes[i] == ']' {
						out = append(out, ']')
						break
					}
				}
			} else {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// Key prefixes that carry no display information. Checked in order;
// only the first match is stripped.
var demanglePrefixes = []string{
	"dynn_", "nick_", "death_", "tenet_", "doctrine_", "ethos_",
	"heritage_", "language_", "martial_custom_", "tradition_",
	"e_", "k_", "d_", "c_", "b_", "x_x_",
}

var demangleSuffixes = []string{"_name", "_perk"}

// demangle approximates the display text of a key that has no entry:
// one known prefix and one known suffix are stripped, underscores
// become spaces, and the first letter is capitalized.
func demangle(key string) string {
	s := key
	for _, prefix := range demanglePrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = rest
			break
		}
	}
	for _, suffix := range demangleSuffixes {
		if rest, ok := strings.CutSuffix(s, suffix); ok {
			s = rest
			break
		}
	}
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		s = string(c-'a'+'A') + s[1:]
	}
	return s
}
