package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered tuple of non-negative integer components, typically
// major.minor or major.minor.build. A Version is a value; the zero value has
// no components and compares equal to "0".
type Version struct {
	parts []int
}

// New builds a Version from the given components.
func New(parts ...int) Version {
	cp := make([]int, len(parts))
	copy(cp, parts)
	return Version{parts: cp}
}

// Parse converts a dotted decimal string ("570.86.16", "12.0") into a Version.
// Leading "v" prefixes and surrounding whitespace are tolerated since driver
// tooling is inconsistent about both.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "v")
	if trimmed == "" {
		return Version{}, fmt.Errorf("parse version: empty string")
	}

	fields := strings.Split(trimmed, ".")
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return Version{}, fmt.Errorf("parse version %q: empty component", raw)
		}
		value, err := strconv.Atoi(field)
		if err != nil {
			return Version{}, fmt.Errorf("parse version %q: component %q is not a number", raw, field)
		}
		if value < 0 {
			return Version{}, fmt.Errorf("parse version %q: negative component %d", raw, value)
		}
		parts = append(parts, value)
	}
	return Version{parts: parts}, nil
}

// MustParse is Parse for package-level constants; it panics on malformed input.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// FromNvenc decodes the packed NVENC API version reported by
// NvEncodeAPIGetMaxSupportedVersion, which encodes (major << 4) | minor.
func FromNvenc(packed uint32) Version {
	return New(int(packed>>4), int(packed&0xF))
}

// Components returns a copy of the numeric components.
func (v Version) Components() []int {
	cp := make([]int, len(v.parts))
	copy(cp, v.parts)
	return cp
}

// IsZero reports whether the version carries no components.
func (v Version) IsZero() bool {
	return len(v.parts) == 0
}

// Major returns the first component, or 0 when absent.
func (v Version) Major() int {
	return v.component(0)
}

// Minor returns the second component, or 0 when absent.
func (v Version) Minor() int {
	return v.component(1)
}

func (v Version) component(index int) int {
	if index < len(v.parts) {
		return v.parts[index]
	}
	return 0
}

// String renders the dotted decimal form. The zero value renders as "0".
func (v Version) String() string {
	if len(v.parts) == 0 {
		return "0"
	}
	fields := make([]string, len(v.parts))
	for i, part := range v.parts {
		fields[i] = strconv.Itoa(part)
	}
	return strings.Join(fields, ".")
}

// MarshalText implements encoding.TextMarshaler for config and JSON output.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compare orders a against b lexicographically over components. The shorter
// operand is zero-padded, so (1,2) and (1,2,0) compare equal. The result is
// -1, 0, or 1.
func Compare(a, b Version) int {
	length := len(a.parts)
	if len(b.parts) > length {
		length = len(b.parts)
	}
	for i := 0; i < length; i++ {
		av := a.component(i)
		bv := b.component(i)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

// Compare orders v against other; see the package-level Compare.
func (v Version) Compare(other Version) int {
	return Compare(v, other)
}

// AtLeast reports whether v >= other.
func (v Version) AtLeast(other Version) bool {
	return Compare(v, other) >= 0
}

// Gap returns the per-component shortfall of detected relative to minimum,
// or the zero Version when detected already satisfies minimum. The result has
// as many components as the longer operand.
func Gap(minimum, detected Version) Version {
	if Compare(detected, minimum) >= 0 {
		return Version{}
	}
	length := len(minimum.parts)
	if len(detected.parts) > length {
		length = len(detected.parts)
	}
	diff := make([]int, length)
	for i := 0; i < length; i++ {
		value := minimum.component(i) - detected.component(i)
		if value < 0 {
			// Components have no fixed radix, so a lower-order surplus cannot
			// offset a higher-order shortfall; clamp instead of borrowing.
			value = 0
		}
		diff[i] = value
	}
	return Version{parts: diff}
}
