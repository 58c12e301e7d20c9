package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"image/color"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

const (
	captchaWidth      = 100
	captchaHeight     = 40
	captchaLength     = 4
	captchaNoiseLines = 5
	captchaAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultCaptchaTTL = 5 * time.Minute
)

type Captcha struct {
	ID  string
	PNG []byte
}

type CaptchaService interface {
	Generate(ctx context.Context) (*Captcha, error)
	// Verify consumes the challenge; a second call with the same id fails.
	Verify(ctx context.Context, id, answer string) error
}

type captchaService struct {
	log      *logger.Logger
	store    CaptchaStore
	ttl      time.Duration
	fontFace font.Face
}

// NewCaptchaService renders with the TTF at fontPath, or the bundled Go font when empty.
func NewCaptchaService(log *logger.Logger, store CaptchaStore, ttl time.Duration, fontPath string) (CaptchaService, error) {
	serviceLog := log.With("service", "CaptchaService")
	if ttl <= 0 {
		ttl = DefaultCaptchaTTL
	}
	raw := goregular.TTF
	if p := strings.TrimSpace(fontPath); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read captcha font: %w", err)
		}
		raw = b
	}
	face, err := loadFontFace(raw, 22)
	if err != nil {
		return nil, err
	}
	return &captchaService{log: serviceLog, store: store, ttl: ttl, fontFace: face}, nil
}

func (s *captchaService) Generate(ctx context.Context) (*Captcha, error) {
	code, err := randomString(captchaAlphabet, captchaLength)
	if err != nil {
		return nil, apperr.Internal("captcha.generate", err)
	}
	png, err := s.render(code)
	if err != nil {
		return nil, apperr.Internal("captcha.generate", err)
	}
	id := uuid.New().String()
	if err := s.store.Put(ctx, id, strings.ToLower(code), s.ttl); err != nil {
		return nil, apperr.Internal("captcha.generate", err)
	}
	return &Captcha{ID: id, PNG: png}, nil
}

func (s *captchaService) Verify(ctx context.Context, id, answer string) error {
	const op = "captcha.verify"
	id = strings.TrimSpace(id)
	answer = strings.TrimSpace(answer)
	if id == "" || answer == "" {
		return apperr.InvalidArgument(op, "captcha is required")
	}
	want, ok, err := s.store.Take(ctx, id)
	if err != nil {
		return apperr.Internal(op, err)
	}
	if !ok || want != strings.ToLower(answer) {
		return apperr.InvalidArgument(op, "invalid captcha")
	}
	return nil
}

func (s *captchaService) render(code string) ([]byte, error) {
	dc := gg.NewContext(captchaWidth, captchaHeight)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Gray{Y: 128})
	dc.SetLineWidth(1)
	for i := 0; i < captchaNoiseLines; i++ {
		dc.DrawLine(
			float64(randInt(captchaWidth)), float64(randInt(captchaHeight)),
			float64(randInt(captchaWidth)), float64(randInt(captchaHeight)),
		)
		dc.Stroke()
	}

	dc.SetFontFace(s.fontFace)
	dc.SetColor(color.Black)
	for i, ch := range code {
		x := float64(20*i + 15)
		y := float64(22 + randInt(11))
		dc.DrawString(string(ch), x, y)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFontFace(fontBytes []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

func randomString(alphabet string, n int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[v.Int64()])
	}
	return sb.String(), nil
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
