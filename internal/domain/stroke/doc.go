// Package stroke judges a hand-drawn stroke against a reference stroke.
//
// The pipeline has three pure stages:
//
//	Normalize  raw pointer samples -> Stroke in the unit square
//	Simplify   Ramer–Douglas–Peucker vertex reduction within an epsilon
//	Compare    arc-length resampling + discrete Fréchet distance -> Verdict
//
// Distances and thresholds are expressed as fractions of the drawing surface
// diagonal, so a verdict does not depend on the device resolution. Two
// tolerance profiles, Flexible and Strict, are provided as data.
//
// Nothing in this package keeps state between calls; every function is safe
// to call concurrently and never modifies its arguments.
package stroke
