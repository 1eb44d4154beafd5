//go:build !noelement_cuboid

package element

const cuboidEnabled = true
