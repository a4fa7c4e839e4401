// Package pipeline is the reference host for action chains. It runs the
// actions of a chain in order, resolves message references, keeps scoped
// variables and interpolates authored strings.
package pipeline
