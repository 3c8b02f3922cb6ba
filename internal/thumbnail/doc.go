// Package thumbnail turns raw cover artwork into a catalog thumbnail:
// decode, Lanczos fit into a bounding box, lossy WebP encode, and an
// atomic write to <dir>/<id>.webp.
package thumbnail
