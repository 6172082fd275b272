// Package wordfreq scores words by how common they are in everyday usage.
//
// Scores follow the Zipf scale: log10 of the word's estimated occurrences per
// billion words of running text. Common words land around 6-8, rare ones near
// 1-2, and unknown words score 0. Frequencies are estimated from a ranked word
// list via Zipf's law, so only the rank order of the list matters.
package wordfreq

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

//go:embed words_en.txt
var embeddedEnglish string

// Scorer returns a commonality score for a word in the given language.
type Scorer interface {
	Score(word, language string) float64
}

// Ranker scores words from frequency-ranked word lists, one list per language.
type Ranker struct {
	ranks     map[string]map[string]int
	harmonics map[string]float64
}

// New builds a Ranker preloaded with the embedded English list.
func New() *Ranker {
	r := &Ranker{
		ranks:     make(map[string]map[string]int),
		harmonics: make(map[string]float64),
	}
	// The embedded list is well-formed, parse errors cannot occur.
	_ = r.load("en", strings.NewReader(embeddedEnglish))
	return r
}

// LoadFile replaces the list for a language with one read from path. The file
// holds one word per line, most frequent first; blank lines and lines starting
// with '#' are skipped.
func (r *Ranker) LoadFile(language, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	if err := r.load(language, f); err != nil {
		return fmt.Errorf("read word list %s: %w", path, err)
	}
	return nil
}

func (r *Ranker) load(language string, src io.Reader) error {
	ranks := make(map[string]int)
	scanner := bufio.NewScanner(src)
	rank := 0
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if _, seen := ranks[word]; seen {
			continue
		}
		rank++
		ranks[word] = rank
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	r.ranks[language] = ranks
	r.harmonics[language] = harmonic(len(ranks))
	return nil
}

// Score returns the Zipf-scale score for word, or 0 when the word is not in
// the language's list (or the language has no list).
func (r *Ranker) Score(word, language string) float64 {
	ranks, ok := r.ranks[language]
	if !ok {
		return 0
	}
	rank, ok := ranks[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return 0
	}
	// Zipf's law: the k-th ranked word carries probability (1/k)/H(n).
	p := (1 / float64(rank)) / r.harmonics[language]
	return math.Log10(p * 1e9)
}

func harmonic(n int) float64 {
	sum := 0.0
	for k := 1; k <= n; k++ {
		sum += 1 / float64(k)
	}
	if sum == 0 {
		return 1
	}
	return sum
}
