// Package geometry provides the rectangle and focal point value types used to
// position crops within an image.
//
// # Coordinate System
//
// Coordinates follow the image convention: (0,0) is the top-left corner, X
// increases rightward and Y increases downward. A Rect's Left/Top edges are
// inclusive and Right/Bottom edges exclusive once rounded to pixels.
//
// Rect uses float64 coordinates so crop boxes can be positioned with
// sub-pixel precision; call Round before handing a Rect to an image backend.
package geometry
