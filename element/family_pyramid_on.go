//go:build !noelement_pyramid

package element

const pyramidEnabled = true
