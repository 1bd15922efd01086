package warp

import (
	"errors"
	"fmt"
	"strings"
)

type Method int

const (
	Nearest Method = iota
	Bilinear
)

var ErrUnknownMethod = errors.New("unknown interpolation method")

func (m Method) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "nn":
		return Nearest, nil
	case "bilinear", "linear", "":
		return Bilinear, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Method) sampler() (Sampler, error) {
	switch m {
	case Nearest:
		return NearestSampler{}, nil
	case Bilinear:
		return BilinearSampler{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, m)
}
