package reservation

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
)

// 紛らわしい文字 (0/O, 1/I) は除外
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultCodeLength      = 8
	defaultMaxCodeAttempts = 5
)

var ErrCodeGenerationFailed = errors.New("could not generate a unique confirmation code")

// CodeExistsFunc reports whether a confirmation code is already taken.
type CodeExistsFunc func(ctx context.Context, code ConfirmationCode) (bool, error)

// CodeGenerator issues reservation ids and guest-facing confirmation codes
// from an injectable random source.
type CodeGenerator struct {
	mu          sync.Mutex
	rand        io.Reader
	length      int
	maxAttempts int
}

func NewCodeGenerator(random io.Reader, length int) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &CodeGenerator{
		rand:        random,
		length:      length,
		maxAttempts: defaultMaxCodeAttempts,
	}
}

func (g *CodeGenerator) NewID() (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uuid.NewRandomFromReader(g.rand)
}

// NewConfirmationCode draws codes until exists reports a free one.
func (g *CodeGenerator) NewConfirmationCode(ctx context.Context, exists CodeExistsFunc) (ConfirmationCode, error) {
	for range g.maxAttempts {
		code, err := g.draw()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func (g *CodeGenerator) draw() (ConfirmationCode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, g.length)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", err
	}
	// len(codeAlphabet) は32なので剰余に偏りは出ない
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return ConfirmationCode(buf), nil
}
