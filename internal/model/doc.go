// Package model holds the data types shared by the depthview pipeline.
//
// This package contains type definitions only. Every other internal package
// imports model; model imports nothing internal.
//
// The pipeline moves data through three shapes:
//   - Matrix: rows read from the input file, before and after resampling
//   - Slice: the rows matched by a depth range query, in column layout
//   - the rendered image, which lives in package render
package model
