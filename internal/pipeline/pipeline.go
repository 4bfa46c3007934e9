// Package pipeline streams a Damos file line by line, rewriting quoted
// fragments through the cache and translator while copying every other
// byte verbatim. Execution is strictly sequential: one line, including any
// blocking retries, completes before the next begins, so the cache needs
// no locking.
package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/AntoniMQ/winols-damos-translator/internal/cache"
	"github.com/AntoniMQ/winols-damos-translator/internal/fragment"
)

// ErrInterrupted reports that the run was cancelled by the operator. The
// cache has been flushed and the output written so far is valid.
var ErrInterrupted = errors.New("interrupted by user")

// Config carries the per-run pipeline settings.
type Config struct {
	TargetLang    string
	CachePath     string
	FlushInterval time.Duration // wall-clock cadence for periodic cache flushes; 0 flushes after every line
	ProgressEvery int           // lines between progress summaries; 0 disables
	Debug         bool          // per-fragment traces; suppresses progress summaries
	Diag          io.Writer     // defaults to os.Stderr
}

// Summary is returned after a run, complete or interrupted.
type Summary struct {
	Lines        int
	Changed      int
	CacheEntries int
}

// Pipeline drives a whole file through the line processor.
type Pipeline struct {
	proc  *LineProcessor
	cache *cache.Cache
	cfg   Config
}

func New(c *cache.Cache, trans Translator, cfg Config) *Pipeline {
	if cfg.Diag == nil {
		cfg.Diag = os.Stderr
	}
	return &Pipeline{
		proc:  NewLineProcessor(c, trans, cfg.TargetLang, cfg.Debug, cfg.Diag),
		cache: c,
		cfg:   cfg,
	}
}

// Run processes every line of in, in order, writing exactly one output
// line per input line to out. Input bytes are decoded as ISO 8859-1 (every
// byte maps to a rune, so nothing is rejected) and output is encoded the
// same way, substituting runes the charset cannot represent. Lines without
// a quote character are copied verbatim, terminators included, so the file
// round-trips byte for byte outside translated fragments.
//
// Cancellation of ctx is observed between lines and during backoff waits;
// the cache is flushed once and ErrInterrupted returned. A fragment whose
// translation was cut short stays untranslated and uncached. Normal EOF
// ends with one final unconditional flush.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	var sum Summary

	r := bufio.NewReader(charmap.ISO8859_1.NewDecoder().Reader(in))
	w := transform.NewWriter(out, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))

	lastFlush := time.Now()

	for {
		if ctx.Err() != nil {
			return p.interrupted(sum, w)
		}

		line, readErr := r.ReadString('\n')
		if line != "" {
			sum.Lines++

			outLine := line
			if fragment.HasQuote(line) {
				newLine, changed := p.proc.Process(ctx, line, sum.Lines)
				outLine = newLine
				if changed {
					sum.Changed++
				}
				// The operator may have interrupted during a backoff wait.
				if ctx.Err() != nil {
					if _, err := io.WriteString(w, outLine); err != nil {
						w.Close()
						return sum, fmt.Errorf("write output: %w", err)
					}
					return p.interrupted(sum, w)
				}
			}
			if _, err := io.WriteString(w, outLine); err != nil {
				w.Close()
				return sum, fmt.Errorf("write output: %w", err)
			}

			if time.Since(lastFlush) >= p.cfg.FlushInterval {
				if err := p.cache.Flush(p.cfg.CachePath); err != nil {
					fmt.Fprintf(p.cfg.Diag, "[warn] cache flush failed: %v\n", err)
				}
				lastFlush = time.Now()
			}

			if p.cfg.ProgressEvery > 0 && !p.cfg.Debug && sum.Lines%p.cfg.ProgressEvery == 0 {
				fmt.Fprintf(p.cfg.Diag, "...processed %d lines, changed %d lines, cache %d entries\n",
					sum.Lines, sum.Changed, p.cache.Len())
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// Flush the encoder so output written before the failure
			// reaches the file.
			if cerr := w.Close(); cerr != nil {
				fmt.Fprintf(p.cfg.Diag, "[warn] closing output failed: %v\n", cerr)
			}
			return sum, fmt.Errorf("read input: %w", readErr)
		}
	}

	if err := w.Close(); err != nil {
		return sum, fmt.Errorf("write output: %w", err)
	}
	if err := p.cache.Flush(p.cfg.CachePath); err != nil {
		return sum, fmt.Errorf("flush cache: %w", err)
	}

	sum.CacheEntries = p.cache.Len()
	return sum, nil
}

// interrupted runs the shutdown path: flush what we have and surface the
// interruption as a handled error. Output written so far stays valid.
func (p *Pipeline) interrupted(sum Summary, w io.WriteCloser) (Summary, error) {
	if err := w.Close(); err != nil {
		fmt.Fprintf(p.cfg.Diag, "[warn] closing output failed: %v\n", err)
	}
	if err := p.cache.Flush(p.cfg.CachePath); err != nil {
		fmt.Fprintf(p.cfg.Diag, "[warn] cache flush failed: %v\n", err)
	}
	sum.CacheEntries = p.cache.Len()
	return sum, ErrInterrupted
}
