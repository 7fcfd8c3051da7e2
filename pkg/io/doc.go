// Package io reads line-segment geometry from JSON and TOML files and writes
// segments and results back out as JSON.
//
// # Overview
//
// Segments are the sole geometric input of linegraph. Anything that can emit
// start/end coordinates (a CAD export, a script, another tool) can feed the
// welder through this package.
//
// # JSON Format
//
// An object with a "segments" array:
//
//	{
//	  "segments": [
//	    {"start": [0, 0, 0], "end": [1, 0, 0]},
//	    {"start": [1, 0, 0], "end": [1, 1, 0]}
//	  ]
//	}
//
// or a bare array of coordinate pairs:
//
//	[[[0, 0, 0], [1, 0, 0]], [[1, 0, 0], [1, 1]]]
//
// # TOML Format
//
//	[[segments]]
//	start = [0.0, 0.0, 0.0]
//	end   = [1.0, 0.0, 0.0]
//
// # Coordinates
//
// Each coordinate is an array of two or three numbers. Two-element arrays are
// planar points with Z = 0. Any other length, or a non-finite value, is an
// INVALID_INPUT error naming the offending segment.
//
// # Format Detection
//
// [ReadSegmentsFile] picks the decoder from the file extension (.json,
// .toml). [ReadSegments] with [FormatAuto] sniffs the first non-space byte:
// '{' or '[' means JSON, anything else TOML.
package io
