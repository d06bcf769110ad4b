package services_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tupyy/fleet-agent/internal/services"
)

var _ = Describe("Profiles", func() {
	var (
		root     string
		profiles *services.Profiles
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		profiles = services.NewProfiles(root, 3)
	})

	It("should name profile directories after the account index", func() {
		Expect(profiles.Dir(2)).To(Equal(filepath.Join(root, "2")))
	})

	It("should create missing directories and keep existing ones", func() {
		Expect(os.MkdirAll(profiles.Dir(1), 0o755)).To(Succeed())
		cookie := filepath.Join(profiles.Dir(1), "Cookies")
		Expect(os.WriteFile(cookie, []byte("token"), 0o600)).To(Succeed())

		Expect(profiles.EnsureAll()).To(Succeed())

		Expect(profiles.Discover()).To(Equal([]string{"0", "1", "2"}))
		Expect(cookie).To(BeAnExistingFile())
	})

	It("should wipe every profile when recreating", func() {
		Expect(profiles.EnsureAll()).To(Succeed())
		cookie := filepath.Join(profiles.Dir(0), "Cookies")
		Expect(os.WriteFile(cookie, []byte("token"), 0o600)).To(Succeed())

		Expect(profiles.RecreateAll()).To(Succeed())

		Expect(cookie).NotTo(BeAnExistingFile())
		Expect(profiles.Dir(0)).To(BeADirectory())
		Expect(profiles.Discover()).To(HaveLen(3))
	})

	It("should ignore files in the profile root", func() {
		Expect(profiles.EnsureAll()).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o600)).To(Succeed())

		Expect(profiles.Discover()).To(Equal([]string{"0", "1", "2"}))
	})

	It("should discover nothing when the root is missing", func() {
		p := services.NewProfiles(filepath.Join(root, "missing"), 3)
		Expect(p.Discover()).To(BeEmpty())
	})
})
