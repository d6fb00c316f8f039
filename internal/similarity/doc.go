// Package similarity computes a normalized textual similarity ratio
// between two page texts using the Ratcliff/Obershelp algorithm.
package similarity
