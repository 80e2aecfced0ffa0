// Package style provides the CSS helpers used when BBCode tags are rendered.
//
// This package contains pure helper functions extracted from the main rendering
// pipeline. They turn tag attributes into inline style declarations without
// depending on the bbcode package, so both the HTML string renderer and the
// structured node renderer share one implementation.
//
// # Structure Organization
//
//   - declarations.go: ordered style declarations, defaults merged under explicit attributes
//   - sizes.go: font size scale, CSS lengths and image dimensions
//
// # Key Functions
//
// Merge: Builds declarations from a set of defaults and a tag's attributes. Defaults
// keep their position, explicit attributes replace their values in place, and any
// remaining attributes follow in sorted order.
//
// FontSize: Maps the [size] attribute onto the seven-step named scale, a pixel
// size, or passes it through untouched.
//
// ImageSize: Resolves the width and height of an [img] tag, preferring the
// WIDTHxHEIGHT default attribute over separate width and height attributes.
//
// # Usage
//
//	decls := style.Merge(style.Declarations{{Property: "border-collapse", Value: "collapse"}},
//	    map[string]string{"width": "100%"})
//	decls.String() // "border-collapse:collapse;width:100%;"
package style
