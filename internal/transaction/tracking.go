package transaction

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	TrackingPrefix = "WC-"
	trackingLength = 6
	trackingChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultTrackingAttempts = 10
)

var ErrTrackingCodeExhausted = errors.New("could not find an unused tracking code")

// CodeExists reports whether a tracking code is already stored.
type CodeExists func(ctx context.Context, code string) (bool, error)

type TrackingCodeGenerator struct {
	exists   CodeExists
	attempts int
	random   func() (string, error)
}

func NewTrackingCodeGenerator(exists CodeExists, attempts int) *TrackingCodeGenerator {
	if attempts <= 0 {
		attempts = DefaultTrackingAttempts
	}
	return &TrackingCodeGenerator{
		exists:   exists,
		attempts: attempts,
		random:   RandomTrackingCode,
	}
}

func (g *TrackingCodeGenerator) Attempts() int {
	return g.attempts
}

// Generate returns a code not present in storage at the time of the check.
// The unique index still decides on insert.
func (g *TrackingCodeGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < g.attempts; i++ {
		code, err := g.random()
		if err != nil {
			return "", err
		}
		taken, err := g.exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check tracking code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrTrackingCodeExhausted
}

// RandomTrackingCode draws WC- followed by six uniform characters from A-Z0-9.
func RandomTrackingCode() (string, error) {
	var b strings.Builder
	b.Grow(len(TrackingPrefix) + trackingLength)
	b.WriteString(TrackingPrefix)
	max := big.NewInt(int64(len(trackingChars)))
	for i := 0; i < trackingLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(trackingChars[n.Int64()])
	}
	return b.String(), nil
}

func ValidTrackingCode(code string) bool {
	if len(code) != len(TrackingPrefix)+trackingLength || !strings.HasPrefix(code, TrackingPrefix) {
		return false
	}
	for _, r := range code[len(TrackingPrefix):] {
		if !strings.ContainsRune(trackingChars, r) {
			return false
		}
	}
	return true
}

// IsUniqueViolation recognises unique index violations from gorm's error
// translation, from pgx and from sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
