//go:build noelement_prism

package element

const prismEnabled = false
