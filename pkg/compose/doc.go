// Package compose bakes crop rectangles into new bitmaps and fits bitmaps
// into fixed-size output squares.
//
// # Applying a Crop
//
// While cropping, the editing canvas shows the image offset by a padding on
// every side, and the crop rectangle lives in that padded space. [Apply]
// converts back: the source lands at (padding - rect.X, padding - rect.Y) in
// a new bitmap of the rectangle's size. Parts of the rectangle outside the
// image stay transparent.
//
//	out, err := compose.Apply(img, geom.Rect{X: 100, Y: 100, Width: 440, Height: 340}, 120)
//	// out is 440x340 with a 20px transparent border around img
//
// # Fitting to a Square
//
// [FitToSquare] scales an image to fit a size x size white canvas, keeping
// its aspect ratio, and centers it.
package compose
