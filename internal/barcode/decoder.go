package barcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode means no decoder found a barcode in the image. Decode
// failures are terminal for a scan attempt; there is no retry.
var ErrNoCode = errors.New("no barcode found in image")

// Decoder is one decoding strategy, tried in priority order
type Decoder struct {
	Kind   Kind
	reader gozxing.Reader
}

// Decoders returns the decoding strategies in the same preference
// order as the encoders: Aztec first, then QR.
func Decoders() []Decoder {
	return []Decoder{
		{Kind: KindAztec, reader: aztec.NewAztecReader()},
		{Kind: KindQR, reader: qrcode.NewQRCodeReader()},
	}
}

// Decode detects and decodes a 2D barcode from raw image bytes,
// returning the embedded text and which symbology matched.
func Decode(imageBytes []byte) (string, Kind, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", "", fmt.Errorf("binarize image: %w", err)
	}

	for _, dec := range Decoders() {
		result, err := dec.reader.Decode(bmp, nil)
		if err != nil {
			continue
		}
		return result.GetText(), dec.Kind, nil
	}
	return "", "", ErrNoCode
}
