//go:build !debug
// +build !debug

package lrucache

func (d *lockedDeque[K, V]) checkInvariants() {}
