package main

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/slidepress/internal/rules"
)

var _ = Describe("Replace command", func() {
	DescribeTable("parsing rule flags",
		func(value string, page int, image string) {
			r, err := parseRule(value)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.page).To(Equal(page))
			Expect(r.image).To(Equal(image))
		},
		Entry("plain", "3=slide.png", 3, "slide.png"),
		Entry("spaces", " 12 = art/new slide.jpg ", 12, "art/new slide.jpg"),
		Entry("equals in path", "1=a=b.png", 1, "a=b.png"),
	)

	DescribeTable("rejecting malformed rule flags",
		func(value string) {
			_, err := parseRule(value)
			Expect(err).To(HaveOccurred())
		},
		Entry("no separator", "slide.png"),
		Entry("no image", "4="),
		Entry("page not a number", "four=slide.png"),
	)

	It("should flag non-numeric pages as invalid pages", func() {
		_, err := parseRule("x=slide.png")
		Expect(err).To(MatchError(rules.ErrInvalidPage))
	})

	DescribeTable("confirming overwrites",
		func(answer string, want bool) {
			var prompt bytes.Buffer
			confirm := promptConfirm(strings.NewReader(answer), &prompt)
			Expect(confirm(7)).To(Equal(want))
			Expect(prompt.String()).To(ContainSubstring("Page 7"))
		},
		Entry("yes", "y\n", true),
		Entry("full word", "YES\n", true),
		Entry("no", "n\n", false),
		Entry("empty", "\n", false),
		Entry("no input", "", false),
	)
})
