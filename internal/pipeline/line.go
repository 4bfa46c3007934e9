package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AntoniMQ/winols-damos-translator/internal/cache"
	"github.com/AntoniMQ/winols-damos-translator/internal/fragment"
)

// Translator produces a translation for one fragment. Retry, backoff, and
// the fall-back-to-original behavior live behind this interface. A false
// second return means the call was cut short by cancellation and the text
// carries no result.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, bool)
}

// debugTruncate is the display length cap for debug traces. Truncation is
// cosmetic; stored and written values are never shortened.
const debugTruncate = 180

// LineProcessor rewrites the quoted fragments of a single line, consulting
// the cache before the translator, and reports whether anything changed.
type LineProcessor struct {
	cache  *cache.Cache
	trans  Translator
	target string
	debug  bool
	diag   io.Writer
}

func NewLineProcessor(c *cache.Cache, trans Translator, targetLang string, debug bool, diag io.Writer) *LineProcessor {
	return &LineProcessor{
		cache:  c,
		trans:  trans,
		target: targetLang,
		debug:  debug,
		diag:   diag,
	}
}

// Process substitutes every quoted fragment of line in left-to-right
// order. Empty and whitespace-only fragments pass through without touching
// the cache. A cache miss invokes the translator and stores the result
// under the original fragment text even when the service returned the
// input unchanged; a translation cut short by cancellation stores nothing.
// The second return value is true if any fragment's output differs from
// its input.
func (p *LineProcessor) Process(ctx context.Context, line string, lineno int) (string, bool) {
	changed := false

	newLine := fragment.Replace(line, func(inner string) string {
		if strings.TrimSpace(inner) == "" {
			return inner
		}

		var out, source string
		if hit, ok := p.cache.Get(inner); ok {
			out, source = hit, "cache"
		} else {
			result, ok := p.trans.Translate(ctx, inner, p.target)
			if !ok {
				// Cancelled mid-translation. Leave the fragment untouched
				// and uncached so a later run translates it for real.
				return inner
			}
			out = result
			p.cache.Put(inner, out)
			source = "service"
		}

		if p.debug {
			fmt.Fprintf(p.diag, "[line %d] (%s) \"%s\" -> \"%s\"\n",
				lineno, source, truncate(inner), truncate(out))
		}

		if out != inner {
			changed = true
		}
		return out
	})

	return newLine, changed
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= debugTruncate {
		return s
	}
	return string(runes[:debugTruncate]) + "…"
}
