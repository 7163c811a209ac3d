// Package geom provides the plain value geometry types used to address image
// buffers: integer and floating point points, sizes and rectangles.
//
// # Coordinate System
//
// All coordinates follow the usual image convention:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward, Y increases downward
//   - A Rectangle covers [X, X+Width) horizontally and [Y, Y+Height) vertically,
//     so Right() and Bottom() are exclusive edges
//
// # Clamping
//
// No operation in this package silently clamps. Clamp and Intersect are
// explicit opt-in helpers; bounds violations elsewhere are reported as errors
// by the packages that consume these types.
package geom
