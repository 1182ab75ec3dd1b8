package kvstore_test

import (
	"testing"

	"github.com/frahmantamala/project-management/internal/kvstore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestKVStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "KV Store Suite")
}

var _ = Describe("MemoryStore", func() {
	var store *kvstore.MemoryStore

	BeforeEach(func() {
		store = kvstore.NewMemoryStore()
	})

	It("should report missing keys as absent", func() {
		_, ok, err := store.Get("missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should overwrite on set and forget on remove", func() {
		Expect(store.Set("a", "1")).To(Succeed())
		Expect(store.Set("a", "2")).To(Succeed())

		v, ok, err := store.Get("a")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("2"))

		Expect(store.Remove("a")).To(Succeed())
		_, ok, _ = store.Get("a")
		Expect(ok).To(BeFalse())
	})

	It("should list keys sorted", func() {
		Expect(store.Set("b", "")).To(Succeed())
		Expect(store.Set("a", "")).To(Succeed())

		keys, err := store.Keys()
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(Equal([]string{"a", "b"}))
	})

	Describe("KeysWithPrefix", func() {
		It("should return only keys sharing the prefix", func() {
			Expect(store.Set("pmp_acme_projects", "[]")).To(Succeed())
			Expect(store.Set("pmp_acme_tasks", "[]")).To(Succeed())
			Expect(store.Set("pmp_globex_projects", "[]")).To(Succeed())

			keys, err := kvstore.KeysWithPrefix(store, "pmp_acme_")
			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(ConsistOf("pmp_acme_projects", "pmp_acme_tasks"))
		})
	})
})
