package style

import "regexp"

var (
	digitsRegex    = regexp.MustCompile(`^\d+$`)
	dimensionRegex = regexp.MustCompile(`(\d+)x(\d+)`)

	fontSizeScale = map[string]string{
		"1": "xx-small",
		"2": "x-small",
		"3": "small",
		"4": "medium",
		"5": "large",
		"6": "x-large",
		"7": "xx-large",
	}
)

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	return digitsRegex.MatchString(s)
}

// FontSize maps a [size] value: 1 through 7 use the named scale, other digit
// strings are pixel sizes, anything else passes through.
func FontSize(size string) string {
	if size == "" {
		return ""
	}
	if !IsDigits(size) {
		return size
	}
	if named, ok := fontSizeScale[size]; ok {
		return named
	}
	return size + "px"
}

// Length turns a bare number into pixels and leaves any other CSS length alone.
func Length(v string) string {
	if IsDigits(v) {
		return v + "px"
	}
	return v
}

// ImageSize resolves image dimensions. When dimensions (the [img=WxH] default
// value) is set it decides alone, even if it does not contain WxH; otherwise
// width and height are converted independently.
func ImageSize(dimensions, width, height string) Declarations {
	var decls Declarations
	if dimensions != "" {
		if m := dimensionRegex.FindStringSubmatch(dimensions); m != nil {
			decls = append(decls,
				Declaration{Property: "width", Value: m[1] + "px"},
				Declaration{Property: "height", Value: m[2] + "px"},
			)
		}
		return decls
	}
	if width != "" {
		decls = append(decls, Declaration{Property: "width", Value: Length(width)})
	}
	if height != "" {
		decls = append(decls, Declaration{Property: "height", Value: Length(height)})
	}
	return decls
}
