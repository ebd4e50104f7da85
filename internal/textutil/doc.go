// Package textutil provides small string helpers for building safe output
// file names from video titles.
package textutil
