package tape

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Resolver maps binary dictionary ids to their literal strings. The binary
// encoding carries no fallback text, so an unresolvable id downstream is
// fatal for the whole ingestion.
type Resolver interface {
	Resolve(id uint16) (string, bool)
	Len() int
}

// TableResolver is a map-backed Resolver.
type TableResolver struct {
	names map[uint16]string
}

// NewTableResolver creates a resolver over names. The map is not copied.
func NewTableResolver(names map[uint16]string) *TableResolver {
	return &TableResolver{names: names}
}

// Resolve returns the string for id.
func (r *TableResolver) Resolve(id uint16) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Len returns the number of known ids.
func (r *TableResolver) Len() int { return len(r.names) }

// LoadTokens reads a token-list file: one `id name` pair per line, id either
// hex (`0x2A38`) or decimal, `#` comments and blank lines allowed. A later
// line for the same id wins.
func LoadTokens(r io.Reader) (*TableResolver, error) {
	names := make(map[uint16]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idText, name, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("tape: token list line %d: want `id name`, got %q", lineNo, line)
		}
		id, err := parseTokenID(idText)
		if err != nil {
			return nil, fmt.Errorf("tape: token list line %d: %w", lineNo, err)
		}
		names[id] = strings.TrimSpace(name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tape: read token list: %w", err)
	}
	return NewTableResolver(names), nil
}

func parseTokenID(s string) (uint16, error) {
	base := 10
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		s, base = rest, 16
	}
	id, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("bad token id %q: %w", s, err)
	}
	return uint16(id), nil
}

// LoadTokensFile loads a token-list file from disk.
func LoadTokensFile(path string) (*TableResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tape: open token list %q: %w", path, err)
	}
	defer f.Close()
	res, err := LoadTokens(f)
	if err != nil {
		return nil, fmt.Errorf("tape: token list %q: %w", path, err)
	}
	return res, nil
}

type resolverEnv struct {
	TokensPath string `env:"CK3SAVE_TOKENS"`
}

// ResolverFromEnv loads the token list named by the CK3SAVE_TOKENS
// environment variable. It returns (nil, nil) when the variable is unset,
// leaving binary saves unreadable but text saves unaffected.
func ResolverFromEnv() (*TableResolver, error) {
	var cfg resolverEnv
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("tape: parse env: %w", err)
	}
	if strings.TrimSpace(cfg.TokensPath) == "" {
		return nil, nil
	}
	return LoadTokensFile(cfg.TokensPath)
}
