package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/qr"
)

// Kind identifies a 2D barcode symbology
type Kind string

const (
	KindAztec Kind = "aztec"
	KindQR    Kind = "qr"
)

// Encoder is one encoding strategy. Strategies are tried in priority
// order; the first one that produces a symbol wins.
type Encoder struct {
	Kind   Kind
	encode func(payload string) (barcode.Barcode, error)
}

// Encoders returns the encoding strategies in preference order:
// Aztec first, QR as the fallback.
func Encoders() []Encoder {
	return []Encoder{
		{
			Kind: KindAztec,
			encode: func(payload string) (barcode.Barcode, error) {
				return aztec.Encode([]byte(payload), aztec.DEFAULT_EC_PERCENT, 0)
			},
		},
		{
			Kind: KindQR,
			encode: func(payload string) (barcode.Barcode, error) {
				return qr.Encode(payload, qr.M, qr.Auto)
			},
		},
	}
}

// Render encodes the payload with the first succeeding strategy and
// returns the symbol as a PNG of size x size pixels.
func Render(payload string, size int) ([]byte, Kind, error) {
	var lastErr error
	for _, enc := range Encoders() {
		data, err := renderWith(enc, payload, size)
		if err != nil {
			lastErr = err
			continue
		}
		return data, enc.Kind, nil
	}
	return nil, "", fmt.Errorf("encode payload: %w", lastErr)
}

// RenderWith encodes the payload with one specific strategy
func RenderWith(kind Kind, payload string, size int) ([]byte, error) {
	for _, enc := range Encoders() {
		if enc.Kind == kind {
			return renderWith(enc, payload, size)
		}
	}
	return nil, fmt.Errorf("unknown encoder kind: %s", kind)
}

func renderWith(enc Encoder, payload string, size int) ([]byte, error) {
	symbol, err := enc.encode(payload)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(symbol, size, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
