// Package generator produces reproducible fake data for seeding. Every random
// draw made while seeding goes through a Generator, so two generators built
// from the same seed yield the same sequence of values.
package generator

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Luismorlan/chirp/model"
	"github.com/brianvoe/gofakeit/v7"
)

const DefaultSeed uint64 = 123

type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// draw runs f while holding the generator lock, so concurrent callers never
// interleave inside a single composite value.
func (g *Generator) draw(f func(f *gofakeit.Faker)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f(g.faker)
}

// IntRange returns a uniformly distributed integer in [min, max].
func (g *Generator) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	var n int
	g.draw(func(f *gofakeit.Faker) { n = f.IntRange(min, max) })
	return n
}

// Bool returns true with the given probability.
func (g *Generator) Bool(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	var v float64
	g.draw(func(f *gofakeit.Faker) { v = f.Float64Range(0, 1) })
	return v < probability
}

func (g *Generator) Name() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.Name() })
	return s
}

func (g *Generator) Username() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.Username() })
	return s
}

func (g *Generator) Email() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.Email() })
	return s
}

// Sentence returns a lorem sentence with a word count in [minWords, maxWords].
func (g *Generator) Sentence(minWords, maxWords int) string {
	var s string
	g.draw(func(f *gofakeit.Faker) {
		n := minWords
		if maxWords > minWords {
			n = f.IntRange(minWords, maxWords)
		}
		s = f.Sentence(n)
	})
	return s
}

// Words returns n space separated lorem words.
func (g *Generator) Words(n int) string {
	words := make([]string, 0, n)
	g.draw(func(f *gofakeit.Faker) {
		for i := 0; i < n; i++ {
			words = append(words, f.Word())
		}
	})
	return strings.Join(words, " ")
}

func (g *Generator) Word() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.Word() })
	return s
}

func (g *Generator) HackerPhrase() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.HackerPhrase() })
	return s
}

// BuzzPhrase returns a corporate phrase such as "synergistic paradigm shift".
func (g *Generator) BuzzPhrase() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.BuzzWord() + " " + f.BS() })
	return s
}

// PublicID returns an opaque identifier drawn from the seeded source, unlike
// uuid.New() it is stable across runs.
func (g *Generator) PublicID() string {
	var s string
	g.draw(func(f *gofakeit.Faker) { s = f.UUID() })
	return s
}

// ImageURL returns a placeholder image URL of the given size.
func (g *Generator) ImageURL(width, height int) string {
	var id int
	g.draw(func(f *gofakeit.Faker) { id = f.IntRange(1, 1000) })
	return fmt.Sprintf("https://picsum.photos/id/%d/%d/%d", id, width, height)
}

func (g *Generator) Avatar() string {
	var seed string
	g.draw(func(f *gofakeit.Faker) { seed = f.LetterN(12) })
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", seed)
}

// TweetContent picks one of the content templates and fills it in. The result
// always fits in model.MaxTweetLength characters.
func (g *Generator) TweetContent() string {
	template := PickOne(g, tweetContentTemplates)
	return ClampTweet(template(g))
}

var tweetContentTemplates = []func(g *Generator) string{
	func(g *Generator) string { return g.Sentence(5, 25) },
	func(g *Generator) string { return fmt.Sprintf("Just finished %s! 💪", g.HackerPhrase()) },
	func(g *Generator) string { return fmt.Sprintf("Thoughts on %s?", g.BuzzPhrase()) },
	func(g *Generator) string { return fmt.Sprintf("%s #%s #tech", g.Sentence(3, 10), g.Word()) },
	func(g *Generator) string {
		return fmt.Sprintf("Working on %s. Excited to share progress!", g.Words(3))
	},
}

// ClampTweet cuts content longer than model.MaxTweetLength characters and
// marks the cut with "...".
func ClampTweet(content string) string {
	if utf8.RuneCountInString(content) <= model.MaxTweetLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:model.MaxTweetLength-3]) + "..."
}

// PickOne returns a random element of items. It panics on an empty slice.
func PickOne[T any](g *Generator, items []T) T {
	if len(items) == 0 {
		panic("generator: PickOne on empty slice")
	}
	return items[g.IntRange(0, len(items)-1)]
}

// PickMany returns n distinct elements of items in random order. n is clamped
// to len(items). items is left untouched.
func PickMany[T any](g *Generator, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return []T{}
	}
	pool := make([]T, len(items))
	copy(pool, items)
	// Partial Fisher-Yates, only the first n slots are shuffled.
	g.mu.Lock()
	for i := 0; i < n; i++ {
		j := g.faker.IntRange(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	g.mu.Unlock()
	return pool[:n]
}
