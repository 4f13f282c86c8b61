package lrucache

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/0xShamil/lru-cache/log"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var _ = Describe("Cache", func() {
	var (
		conf  Config[string, int]
		clock *fakeClock
		c     *Cache[string, int]
	)
	BeforeEach(func() {
		clock = newFakeClock()
		conf = Config[string, int]{
			MaximumSize: 2,
			Clock:       clock,
			Logger:      log.NewLogger(log.DebugLevel, GinkgoWriter),
		}
	})
	JustBeforeEach(func() {
		var err error
		c, err = New(conf)
		Expect(err).NotTo(HaveOccurred())
	})

	// getN reads key n times, discarding results.
	getN := func(key string, n int) {
		for i := 0; i < n; i++ {
			c.Get(key)
		}
	}

	It("stores and retrieves values", func() {
		c.Put("a", 1)
		v, ok := c.Get("a")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
	})

	It("reports absent keys", func() {
		_, ok := c.Get("nope")
		Expect(ok).To(BeFalse())
	})

	It("overwrites in place without growing", func() {
		c.Put("a", 1)
		c.Put("a", 2)
		Expect(c.Len()).To(Equal(1))
		v, _ := c.Get("a")
		Expect(v).To(Equal(2))
	})

	Context("eviction", func() {
		It("evicts the first inserted never-bumped key at capacity", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			c.Put("c", 3)
			Expect(c.Len()).To(Equal(2))
			_, ok := c.Get("a")
			Expect(ok).To(BeFalse())
			v, ok := c.Get("b")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(2))
			v, ok = c.Get("c")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(3))
		})

		It("protects a bumped key", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			// Hits 2..5; the read reaching 5 refreshes a's position.
			getN("a", 4)
			c.Put("c", 3)
			_, ok := c.Get("b")
			Expect(ok).To(BeFalse())
			_, ok = c.Get("a")
			Expect(ok).To(BeTrue())
			_, ok = c.Get("c")
			Expect(ok).To(BeTrue())
		})

		It("converges to the bound for many distinct inserts", func() {
			for _, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
				c.Put(key, 0)
			}
			Expect(c.Len()).To(Equal(2))
		})

		It("does not evict on overwrite of a present key", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			c.Put("b", 3)
			c.Put("b", 4)
			Expect(c.Len()).To(Equal(2))
			_, ok := c.Get("a")
			Expect(ok).To(BeTrue())
		})
	})

	Context("sampling", func() {
		It("does not reposition before the interval", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			// Hits 2..4: below the sampling interval, position unchanged.
			getN("a", 3)
			c.Put("c", 3)
			_, ok := c.Get("a")
			Expect(ok).To(BeFalse())
			_, ok = c.Get("b")
			Expect(ok).To(BeTrue())
		})

		It("repositions on the sampled read", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			getN("a", 4)
			c.Put("c", 3)
			_, ok := c.Get("a")
			Expect(ok).To(BeTrue())
			_, ok = c.Get("b")
			Expect(ok).To(BeFalse())
		})
	})

	Context("expiration", func() {
		BeforeEach(func() {
			conf.ExpiresAfterWrite = 100 * time.Millisecond
		})

		It("purges an expired entry on read", func() {
			c.Put("k", 1)
			clock.Advance(150 * time.Millisecond)
			_, ok := c.Get("k")
			Expect(ok).To(BeFalse())
			Expect(c.Len()).To(Equal(0))
		})

		It("expires strictly after the instant", func() {
			c.Put("k", 1)
			clock.Advance(100 * time.Millisecond)
			_, ok := c.Get("k")
			Expect(ok).To(BeTrue())
			clock.Advance(time.Nanosecond)
			_, ok = c.Get("k")
			Expect(ok).To(BeFalse())
		})

		It("keeps the write-time expiry on overwrite", func() {
			c.Put("k", 1)
			clock.Advance(60 * time.Millisecond)
			c.Put("k", 2)
			clock.Advance(60 * time.Millisecond)
			_, ok := c.Get("k")
			Expect(ok).To(BeFalse())
		})

		Context("without a max age", func() {
			BeforeEach(func() {
				conf.ExpiresAfterWrite = 0
			})
			It("never expires", func() {
				c.Put("k", 1)
				clock.Advance(1000 * time.Hour)
				_, ok := c.Get("k")
				Expect(ok).To(BeTrue())
			})
		})
	})

	Context("remove", func() {
		It("returns the previous value", func() {
			c.Put("a", 1)
			v, ok := c.Remove("a")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1))
			Expect(c.Len()).To(Equal(0))
			_, ok = c.Get("a")
			Expect(ok).To(BeFalse())
		})

		It("is a no-op on an absent key", func() {
			c.Put("a", 1)
			_, ok := c.Remove("z")
			Expect(ok).To(BeFalse())
			Expect(c.Len()).To(Equal(1))
		})

		It("drops the key from eviction tracking", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			c.Remove("a")
			// a's queue node is gone; the next capacity overflow must hit b.
			c.Put("c", 3)
			c.Put("d", 4)
			Expect(c.Len()).To(Equal(2))
			_, ok := c.Get("b")
			Expect(ok).To(BeFalse())
			_, ok = c.Get("c")
			Expect(ok).To(BeTrue())
			_, ok = c.Get("d")
			Expect(ok).To(BeTrue())
		})
	})

	Context("clear", func() {
		It("empties lookup and eviction tracking", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			c.Clear()
			Expect(c.Len()).To(Equal(0))
			_, ok := c.Get("a")
			Expect(ok).To(BeFalse())
			_, ok = c.Get("b")
			Expect(ok).To(BeFalse())
		})

		It("accepts writes after clear", func() {
			c.Put("a", 1)
			c.Clear()
			c.Put("b", 2)
			v, ok := c.Get("b")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(2))
			Expect(c.Len()).To(Equal(1))
		})
	})

	Context("FIFO mode", func() {
		BeforeEach(func() {
			conf.FIFOMode = true
		})

		It("ignores reads when ordering", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			getN("a", 20)
			c.Put("c", 3)
			_, ok := c.Get("a")
			Expect(ok).To(BeFalse())
			_, ok = c.Get("b")
			Expect(ok).To(BeTrue())
		})
	})

	Context("with the locked access queue", func() {
		BeforeEach(func() {
			conf.AccessQueue = NewLockedDeque[string, int]()
		})

		It("keeps eviction semantics", func() {
			c.Put("a", 1)
			c.Put("b", 2)
			getN("a", 4)
			c.Put("c", 3)
			_, ok := c.Get("a")
			Expect(ok).To(BeTrue())
			_, ok = c.Get("b")
			Expect(ok).To(BeFalse())
		})
	})
})
