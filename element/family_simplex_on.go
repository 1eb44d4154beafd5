//go:build !noelement_simplex

package element

const simplexEnabled = true
