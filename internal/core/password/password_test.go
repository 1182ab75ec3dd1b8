package password_test

import (
	"testing"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/password"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPassword(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Password Suite")
}

var _ = Describe("Hasher", func() {
	DescribeTable("round trips",
		func(h password.Hasher) {
			hash, err := h.Hash("s3cret!")
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Compare(hash, "s3cret!")).To(BeTrue())
			Expect(h.Compare(hash, "wrong")).To(BeFalse())
		},
		Entry("bcrypt", password.Bcrypt{Cost: 4}),
		Entry("plain", password.Plain{}),
	)

	It("should not store bcrypt hashes in clear", func() {
		hash, err := password.Bcrypt{Cost: 4}.Hash("s3cret!")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("s3cret!"))
	})

	Describe("FromConfig", func() {
		It("should pick the configured hasher", func() {
			h, err := password.FromConfig(internal.SecurityConfig{PasswordHashing: "plain"})
			Expect(err).NotTo(HaveOccurred())
			Expect(h).To(Equal(password.Plain{}))

			h, err = password.FromConfig(internal.SecurityConfig{PasswordHashing: "bcrypt", BCryptCost: 6})
			Expect(err).NotTo(HaveOccurred())
			Expect(h).To(Equal(password.Bcrypt{Cost: 6}))
		})

		It("should reject unknown schemes", func() {
			_, err := password.FromConfig(internal.SecurityConfig{PasswordHashing: "md5"})
			Expect(err).To(HaveOccurred())
		})
	})
})
