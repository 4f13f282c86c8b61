//go:build debug
// +build debug

// Gomega should not be dependency in non-debug build.

package lrucache

import (
	"errors"
	"log"

	"github.com/facebookgo/stackerr"
	. "github.com/onsi/gomega"
)

var _ = func() (_ struct{}) {
	RegisterFailHandler(GomegaFailHandler)
	return
}()

func GomegaFailHandler(message string, callerSkip ...int) {
	skip := callerSkip[0] + 1
	log.Fatal("FATAL: invariants are broken:", stackerr.WrapSkip(errors.New(message), skip))
}

// checkInvariants requires d.mu be held.
func (d *lockedDeque[K, V]) checkInvariants() {
	Expect(d.fakeHead.prev).To(BeNil())
	Expect(d.fakeTail.next).To(BeNil())
	Expect(d.fakeHead.owner).To(BeNil())
	Expect(d.fakeTail.owner).To(BeNil())
	var nodes int
	for n := d.fakeHead.next; n != d.fakeTail; n = n.next {
		nodes++
		Expect(n.prev.next).To(BeIdenticalTo(n))
		Expect(n.owner).To(BeIdenticalTo(d))
		Expect(n.entry).NotTo(BeNil())
	}
	Expect(d.fakeTail.prev.next).To(BeIdenticalTo(d.fakeTail))
	Expect(nodes).To(Equal(d.len))
}
