package png

import (
	"bytes"
	"errors"
	"image"

	"github.com/kettek/apng"
)

// Animate encodes frames as a looping APNG, each shown for frameDelay seconds.
// Frames must share the bounds of the first one.
func Animate(frames []image.Image, frameDelay float64) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to animate")
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(frames)),
		LoopCount: 0,
	}

	bounds := frames[0].Bounds()
	for i, img := range frames {
		if img.Bounds().Size() != bounds.Size() {
			return nil, errors.New("frames differ in size")
		}
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(frameDelay * 1000),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
