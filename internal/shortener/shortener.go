package shortener

import (
	"fmt"
	"math/rand"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Defaults for code generation
const (
	DefaultCodeLength  = 8
	DefaultMaxAttempts = 10
)

// ExistsFunc reports whether a candidate code is already taken
type ExistsFunc func(code string) (bool, error)

// Shortener generates unique short codes. Collision resistance, not
// secrecy, is the goal, so math/rand is enough.
type Shortener struct {
	codeLength  int
	maxAttempts int
	exists      ExistsFunc
	rng         *rand.Rand
}

// Option configures a Shortener
type Option func(*Shortener)

// WithCodeLength overrides the generated code length
func WithCodeLength(n int) Option {
	return func(s *Shortener) {
		if n > 0 {
			s.codeLength = n
		}
	}
}

// WithMaxAttempts overrides the collision retry budget
func WithMaxAttempts(n int) Option {
	return func(s *Shortener) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRandSource injects a deterministic source for tests
func WithRandSource(src rand.Source) Option {
	return func(s *Shortener) {
		s.rng = rand.New(src)
	}
}

// New creates a shortener backed by the given uniqueness check
func New(exists ExistsFunc, opts ...Option) *Shortener {
	s := &Shortener{
		codeLength:  DefaultCodeLength,
		maxAttempts: DefaultMaxAttempts,
		exists:      exists,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateCode returns a fresh unique code. Exhausting the retry budget is a
// hard error: ten straight collisions mean either a near-full namespace or a
// broken uniqueness check, and the caller has to know.
func (s *Shortener) GenerateCode() (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code := s.randomCode()

		taken, err := s.exists(code)
		if err != nil {
			return "", fmt.Errorf("uniqueness check failed: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique code after %d attempts", s.maxAttempts)
}

// BuildShortURL joins a base URL with a code into the public redirect URL
func BuildShortURL(baseURL, code string) string {
	return fmt.Sprintf("%s/r/%s", strings.TrimRight(baseURL, "/"), code)
}

func (s *Shortener) randomCode() string {
	var b strings.Builder
	b.Grow(s.codeLength)
	for i := 0; i < s.codeLength; i++ {
		if s.rng != nil {
			b.WriteByte(alphabet[s.rng.Intn(len(alphabet))])
		} else {
			b.WriteByte(alphabet[rand.Intn(len(alphabet))])
		}
	}
	return b.String()
}
